package composer

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"updater/internal/executor"
)

// Default locations relative to the manifest directory.
const (
	ManifestFile   = "composer.json"
	DefaultHomeDir = "var/composer_home"
	DefaultBinary  = "composer"
)

// Result is the outcome of a composer invocation.
type Result struct {
	ExitCode int
	Output   string // stdout and stderr merged
}

// Runner executes composer requests. A non-zero exit is reported through
// Result.ExitCode; an error means composer could not be run at all.
type Runner interface {
	Run(ctx context.Context, req *Request) (Result, error)
}

// CLIRunner runs the composer executable as a subprocess. COMPOSER and
// COMPOSER_HOME are passed in the child environment only, so runners bound to
// different manifest directories may be used concurrently.
type CLIRunner struct {
	exec   *executor.Executor
	binary string
	script string
	dir    string
	home   string
	logger *log.Logger
}

// RunnerOption configures a CLIRunner.
type RunnerOption func(*CLIRunner)

// WithBinary sets the executable used to run composer.
func WithBinary(binary string) RunnerOption {
	return func(r *CLIRunner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithScript runs composer through a script (e.g. composer.phar) passed as
// the first argument to the binary, typically "php".
func WithScript(path string) RunnerOption {
	return func(r *CLIRunner) {
		r.script = path
	}
}

// WithHome sets COMPOSER_HOME. Relative paths resolve against the manifest directory.
func WithHome(dir string) RunnerOption {
	return func(r *CLIRunner) {
		if dir != "" {
			r.home = dir
		}
	}
}

// WithRunnerLogger sets the debug logger.
func WithRunnerLogger(l *log.Logger) RunnerOption {
	return func(r *CLIRunner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewCLIRunner creates a runner operating on <manifestDir>/composer.json.
func NewCLIRunner(exec *executor.Executor, manifestDir string, opts ...RunnerOption) *CLIRunner {
	if exec == nil {
		exec = executor.New(false, false)
	}
	r := &CLIRunner{
		exec:   exec,
		binary: DefaultBinary,
		dir:    manifestDir,
		home:   DefaultHomeDir,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	exec.SetDir(manifestDir)
	return r
}

// Home returns the resolved COMPOSER_HOME.
func (r *CLIRunner) Home() string {
	if filepath.IsAbs(r.home) {
		return r.home
	}
	return filepath.Join(r.dir, r.home)
}

// ManifestPath returns the manifest the runner points composer at.
func (r *CLIRunner) ManifestPath() string {
	return filepath.Join(r.dir, ManifestFile)
}

// DryRun reports whether the underlying executor only prints commands.
func (r *CLIRunner) DryRun() bool {
	return r.exec.DryRun()
}

// Env returns the environment entries set for every invocation.
func (r *CLIRunner) Env() []string {
	return []string{
		"COMPOSER_HOME=" + r.Home(),
		"COMPOSER=" + r.ManifestPath(),
	}
}

// Argv returns the full argument list passed to the binary for req.
func (r *CLIRunner) Argv(req *Request) []string {
	var argv []string
	if r.script != "" {
		argv = append(argv, r.script)
	}
	argv = append(argv, req.Args()...)
	return append(argv, "--no-interaction", "--no-ansi")
}

// Run executes req and returns composer's exit status and combined output.
func (r *CLIRunner) Run(ctx context.Context, req *Request) (Result, error) {
	argv := r.Argv(req)
	r.logger.Debug("running composer", "binary", r.binary, "args", argv, "manifest", r.ManifestPath())

	res, err := r.exec.Capture(ctx, r.Env(), r.binary, argv...)
	if err != nil {
		return Result{Output: res.Output}, err
	}

	r.logger.Debug("composer finished", "command", req.Command(), "exit", res.ExitCode)
	return Result{ExitCode: res.ExitCode, Output: res.Output}, nil
}
