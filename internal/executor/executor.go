// Package executor runs external commands and captures their output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result is the outcome of a command that was allowed to finish.
type Result struct {
	ExitCode int
	Output   string // stdout and stderr, interleaved as written
}

// Executor handles command execution with dry-run and verbose modes.
type Executor struct {
	dryRun  bool
	verbose bool
	dir     string
	stream  io.Writer // receives live output when streaming; nil disables it
	notice  io.Writer // receives dry-run and verbose lines
}

// New creates a new Executor with the given options.
func New(dryRun, verbose bool) *Executor {
	return &Executor{
		dryRun:  dryRun,
		verbose: verbose,
		notice:  os.Stdout,
	}
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// DryRun reports whether commands are printed instead of executed.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// SetVerbose enables or disables verbose mode.
func (e *Executor) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// SetDir sets the working directory for executed commands.
func (e *Executor) SetDir(dir string) {
	e.dir = dir
}

// SetStream makes Capture copy live output to w in addition to capturing it.
func (e *Executor) SetStream(w io.Writer) {
	e.stream = w
}

// SetNotice redirects dry-run and verbose notices.
func (e *Executor) SetNotice(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	e.notice = w
}

// Capture runs a command with extra environment entries and returns its
// combined output and exit status. A non-zero exit is reported through
// Result.ExitCode, not as an error; an error means the command could not be
// started or ctx was cancelled.
func (e *Executor) Capture(ctx context.Context, env []string, name string, args ...string) (Result, error) {
	if e.dryRun {
		e.printDryRun(env, name, args)
		return Result{}, nil
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), env...)

	var combined bytes.Buffer
	var w io.Writer = &combined
	if e.stream != nil {
		w = io.MultiWriter(e.stream, &combined)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if e.verbose {
		fmt.Fprintf(e.notice, "Executing: %s %s\n", name, strings.Join(args, " "))
	}

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Output: combined.String()}, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode(), Output: combined.String()}, nil
	}
	if err != nil {
		return Result{Output: combined.String()}, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return Result{Output: combined.String()}, nil
}

func (e *Executor) printDryRun(env []string, name string, args []string) {
	prefix := ""
	if len(env) > 0 {
		prefix = strings.Join(env, " ") + " "
	}
	fmt.Fprintf(e.notice, "[dry-run] Would execute: %s%s %s\n", prefix, name, strings.Join(args, " "))
}
