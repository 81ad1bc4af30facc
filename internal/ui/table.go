package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"updater/internal/history"
	"updater/pkg/composer"
	"updater/pkg/versioncheck"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer  *tabwriter.Writer
	headers []string
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		writer:  tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// AddRow adds a row to the table, printing the headers first if needed.
func (t *Table) AddRow(row ...string) {
	t.writeHeaders()
	fmt.Fprintln(t.writer, strings.Join(row, "\t"))
}

func (t *Table) writeHeaders() {
	if len(t.headers) == 0 {
		return
	}
	headerRow := make([]string, len(t.headers))
	for i, h := range t.headers {
		headerRow[i] = Bold(strings.ToUpper(h))
	}
	fmt.Fprintln(t.writer, strings.Join(headerRow, "\t"))
	t.headers = nil
}

// Render flushes the table.
func (t *Table) Render() {
	t.writeHeaders()
	t.writer.Flush()
}

// VersionColor returns the color for a version's stability.
func VersionColor(s versioncheck.Stability) func(a ...interface{}) string {
	switch s {
	case versioncheck.StabilityStable:
		return StableVersion.Sprint
	case versioncheck.StabilityPrerelease:
		return PreVersion.Sprint
	case versioncheck.StabilityDev:
		return DevVersion.Sprint
	}
	return Muted.Sprint
}

// PrintVersions prints versions in registry order with their stability,
// marking the latest product and development versions.
func PrintVersions(w io.Writer, versions []string, latest, latestDev string) {
	if len(versions) == 0 {
		Muted.Fprintln(w, "No versions found")
		return
	}

	t := NewTable(w, "#", "version", "stability", "")
	for i, v := range versions {
		s := versioncheck.StabilityOf(v)
		mark := ""
		switch v {
		case latest:
			mark = Success.Sprint(SymbolLatest + " latest")
		case latestDev:
			mark = DevVersion.Sprint(SymbolLatest + " latest dev")
		}
		t.AddRow(fmt.Sprint(i+1), VersionColor(s)(v), s.String(), mark)
	}
	t.Render()
}

// PrintHistory prints journal entries, most recent first.
func PrintHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		Muted.Fprintln(w, "No history recorded")
		return
	}

	t := NewTable(w, "id", "time", "operation", "packages", "status", "snapshot")
	for _, e := range entries {
		status := Success.Sprint("ok")
		if !e.Success {
			status = Error.Sprint("failed")
		}
		if e.DryRun {
			status += Muted.Sprint(" (dry-run)")
		}
		op := string(e.Operation)
		if e.Directive != "" && e.Directive != op {
			op += " " + e.Directive
		}
		snap := ""
		if e.CanRestore() {
			snap = "yes"
		}
		t.AddRow(e.ShortID(), e.FormatTime(), op, truncate(strings.Join(e.Packages, ", "), 50), status, snap)
	}
	t.Render()
}

// PrintEntry prints one journal entry in detail.
func PrintEntry(w io.Writer, e *history.Entry) {
	printField(w, "ID", e.ID)
	printField(w, "Time", e.FormatTime())
	printField(w, "Operation", string(e.Operation))
	if e.Directive != "" {
		printField(w, "Directive", e.Directive)
	}
	printField(w, "Manifest", e.ManifestPath)
	if len(e.Packages) > 0 {
		printField(w, "Packages", strings.Join(e.Packages, ", "))
	}
	printField(w, "Success", fmt.Sprint(e.Success))
	if e.Error != "" {
		printField(w, "Error", e.Error)
	}
	printField(w, "Restorable", fmt.Sprint(e.CanRestore()))
	if e.Output != "" {
		fmt.Fprintln(w)
		Muted.Fprintln(w, strings.TrimRight(e.Output, "\n"))
	}
}

// PrintManifest prints the require and replace sections of a manifest.
func PrintManifest(w io.Writer, m *composer.Manifest) {
	if m.Name != "" {
		printField(w, "Name", m.Name)
	}
	if m.Version != "" {
		printField(w, "Version", m.Version)
	}
	printSection(w, "Require", m.Require)
	printSection(w, "Replace", m.Replace)
}

func printSection(w io.Writer, label string, entries map[string]string) {
	Header.Fprintf(w, "\n%s (%d)\n", label, len(entries))
	if len(entries) == 0 {
		return
	}
	t := NewTable(w)
	for _, name := range sortedKeys(entries) {
		t.AddRow("  "+PackageName.Sprint(name), entries[name])
	}
	t.Render()
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", Cyan(label), value)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
