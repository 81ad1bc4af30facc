// Package history journals manifest-changing runs in a BoltDB file so a
// failed or unwanted change can be inspected and undone by hand.
package history

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation is the kind of run an entry describes.
type Operation string

const (
	OpRequire Operation = "require"
	OpApply   Operation = "apply"
	OpUpdate  Operation = "update"
	OpRestore Operation = "restore"
)

// Entry is a single journaled run.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Operation    Operation `json:"operation"`
	Directive    string    `json:"directive,omitempty"`
	ManifestPath string    `json:"manifest_path"`
	Packages     []string  `json:"packages,omitempty"` // name:constraint pairs
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	Output       string    `json:"output,omitempty"`
	DryRun       bool      `json:"dry_run,omitempty"`

	// Snapshot holds the manifest bytes captured before the run. It is
	// stored in its own bucket and is only populated by Store.Get.
	Snapshot    []byte `json:"-"`
	HasSnapshot bool   `json:"has_snapshot"`
}

// NewEntry creates an entry for op against the manifest at path.
func NewEntry(op Operation, manifestPath string, packages []string) *Entry {
	return &Entry{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		Operation:    op,
		ManifestPath: manifestPath,
		Packages:     packages,
	}
}

// SetSnapshot attaches the pre-run manifest content.
func (e *Entry) SetSnapshot(data []byte) {
	e.Snapshot = data
	e.HasSnapshot = data != nil
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
	e.Error = ""
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// CanRestore reports whether the entry carries a manifest snapshot to write back.
func (e *Entry) CanRestore() bool {
	return e.HasSnapshot && e.ManifestPath != "" && !e.DryRun
}

// ShortID returns the first block of the ID, enough to pick an entry by hand.
func (e *Entry) ShortID() string {
	if i := strings.IndexByte(e.ID, '-'); i > 0 {
		return e.ID[:i]
	}
	return e.ID
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Summary returns a one-line description of the run.
func (e *Entry) Summary() string {
	status := "success"
	if !e.Success {
		status = "failed"
	}

	var b strings.Builder
	b.WriteString(e.FormatTime())
	b.WriteString(" ")
	b.WriteString(string(e.Operation))
	if e.Directive != "" && e.Directive != string(e.Operation) {
		b.WriteString(" (" + e.Directive + ")")
	}
	if len(e.Packages) > 0 {
		b.WriteString(" " + e.Packages[0])
		if len(e.Packages) > 1 {
			b.WriteString(" +" + strconv.Itoa(len(e.Packages)-1))
		}
	}
	b.WriteString(" [" + status + "]")
	return b.String()
}
