package composer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrUnsupportedDirective = errors.New("unsupported composer directive")
	ErrValidation           = errors.New("invalid directive parameters")
	ErrManifest             = errors.New("manifest error")
	ErrCommandFailed        = errors.New("composer command failed")
	ErrVersionQuery         = errors.New("no version list in composer output")
)

// UnsupportedDirectiveError is returned when no handler exists for a directive.
type UnsupportedDirectiveError struct {
	Directive string
}

// Error implements the error interface.
func (e *UnsupportedDirectiveError) Error() string {
	return fmt.Sprintf("composer directive %q is not supported", e.Directive)
}

// Is reports whether target is ErrUnsupportedDirective.
func (e *UnsupportedDirectiveError) Is(target error) bool {
	return target == ErrUnsupportedDirective
}

// ValidationError is returned when directive parameters fail structural
// checks. Nothing has been executed or written when it is returned.
type ValidationError struct {
	Directive string
	Records   []int // zero-based indexes of the offending records
	Reason    string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("incorrect/missing parameters for composer directive %q", e.Directive)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Records) > 0 {
		idx := make([]string, len(e.Records))
		for i, r := range e.Records {
			idx[i] = strconv.Itoa(r)
		}
		msg += " (records " + strings.Join(idx, ", ") + ")"
	}
	return msg
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ManifestError is returned when the manifest cannot be read, parsed or written.
type ManifestError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ManifestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrManifest.
func (e *ManifestError) Is(target error) bool {
	return target == ErrManifest
}

// CommandError is returned when composer exits with a non-zero status.
type CommandError struct {
	Command  string // composer subcommand, e.g. "require"
	Request  string // the full request, serialized as JSON
	ExitCode int
	Output   string // captured output, verbatim
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %s", e.Command, e.Output)
}

// Is reports whether target is ErrCommandFailed.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

// VersionQueryError is returned when a show command succeeded but its output
// carried no parseable version list.
type VersionQueryError struct {
	Package string
	Output  string
}

// Error implements the error interface.
func (e *VersionQueryError) Error() string {
	return fmt.Sprintf("no available versions reported for package %q", e.Package)
}

// Is reports whether target is ErrVersionQuery.
func (e *VersionQueryError) Is(target error) bool {
	return target == ErrVersionQuery
}
