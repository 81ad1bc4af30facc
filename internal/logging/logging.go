// Package logging builds the charmbracelet/log loggers used by the updater
// commands and carries them through context.Context.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w that filters messages below level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Level maps the verbose flag to a log level.
func Level(verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// Progress tracks the start of an operation and logs its elapsed duration.
// It is not safe for concurrent use.
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress starts a progress tracker.
func NewProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Elapsed returns the time since the tracker was created, rounded to the millisecond.
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// Done logs msg with the elapsed time, e.g. "Ran composer update (1.234s)".
func (p *Progress) Done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.Elapsed())
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or log.Default() if none.
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
