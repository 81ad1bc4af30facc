package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps the spinner library for consistent styling.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner on stderr with the given message.
func NewSpinner(message string) *Spinner {
	charSet := spinner.CharSets[14] // ⣾⣽⣻⢿⡿⣟⣯⣷
	if !UseUnicode {
		charSet = spinner.CharSets[9] // |/-\
	}

	s := spinner.New(charSet, 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if UseColors {
		_ = s.Color("cyan")
	}

	return &Spinner{s: s}
}

// Start starts the spinner.
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// UpdateMessage updates the spinner message.
func (sp *Spinner) UpdateMessage(message string) {
	sp.s.Suffix = " " + message
}

// WithSpinner runs fn with a spinner, printing the outcome when it returns.
// When quiet is set no spinner is drawn, so streamed command output stays readable.
func WithSpinner(message string, quiet bool, fn func() error) error {
	if quiet {
		InfoMsg("%s", message)
		return fn()
	}

	sp := NewSpinner(message)
	sp.Start()
	err := fn()
	sp.Stop()

	if err != nil {
		ErrorMsg("%s", message+" - failed")
		return err
	}

	SuccessMsg("%s", message+" - done")
	return nil
}
