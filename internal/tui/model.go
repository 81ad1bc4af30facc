package tui

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"updater/pkg/versioncheck"
)

// Source supplies the versions shown by the picker.
type Source interface {
	Package() string
	AvailableVersions(ctx context.Context) ([]string, error)
	Refresh(ctx context.Context) ([]string, error)
}

// Model holds the picker state. It has no terminal dependencies so the list
// logic can be driven directly.
type Model struct {
	ctx    context.Context
	source Source

	width  int
	height int

	versions  []string
	visible   []string
	latest    string
	latestDev string

	showDev  bool
	filter   string
	cursor   int
	scroll   int
	loading  bool
	errorMsg string

	selected string
	quitting bool
}

// NewModel creates a picker model for source. Development versions are
// hidden until toggled unless showDev is set.
func NewModel(ctx context.Context, source Source, showDev bool) *Model {
	return &Model{
		ctx:     ctx,
		source:  source,
		showDev: showDev,
		loading: true,
	}
}

// SetSize sets the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampScroll()
}

// VisibleHeight returns the number of list rows that fit on screen.
func (m *Model) VisibleHeight() int {
	// header (2), filter line (1), status (1), footer (2)
	h := m.height - 6
	if h < 1 {
		return 10
	}
	return h
}

// SetVersions replaces the version list and recomputes the visible rows.
func (m *Model) SetVersions(versions []string) {
	m.versions = versions
	m.latest, m.latestDev = versioncheck.LatestOf(versions)
	m.loading = false
	m.errorMsg = ""
	m.applyFilter()
}

// SetError records a load failure.
func (m *Model) SetError(err error) {
	m.loading = false
	if err != nil {
		m.errorMsg = err.Error()
	}
}

// ToggleDev shows or hides development versions.
func (m *Model) ToggleDev() {
	m.showDev = !m.showDev
	m.applyFilter()
}

// SetFilter narrows the list to versions fuzzy-matching text.
func (m *Model) SetFilter(text string) {
	m.filter = strings.TrimSpace(text)
	m.applyFilter()
}

func (m *Model) applyFilter() {
	current := m.Current()

	candidates := make([]string, 0, len(m.versions))
	for _, v := range m.versions {
		if m.showDev || !versioncheck.IsDevelopment(v) {
			candidates = append(candidates, v)
		}
	}
	m.visible = matchInOrder(m.filter, candidates)

	m.cursor = 0
	for i, v := range m.visible {
		if v == current {
			m.cursor = i
			break
		}
	}
	m.clampScroll()
}

// Visible returns the versions currently listed.
func (m *Model) Visible() []string {
	return m.visible
}

// Current returns the version under the cursor, or "".
func (m *Model) Current() string {
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		return m.visible[m.cursor]
	}
	return ""
}

// MoveCursor moves the cursor by delta rows, staying within the list.
func (m *Model) MoveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

// GoToTop moves the cursor to the first row.
func (m *Model) GoToTop() {
	m.MoveCursor(-len(m.visible))
}

// GoToBottom moves the cursor to the last row.
func (m *Model) GoToBottom() {
	m.MoveCursor(len(m.visible))
}

func (m *Model) clampScroll() {
	h := m.VisibleHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// Select records the version under the cursor as the choice.
func (m *Model) Select() bool {
	m.selected = m.Current()
	return m.selected != ""
}

// Selected returns the chosen version, or "" if the picker was cancelled.
func (m *Model) Selected() string {
	return m.selected
}

// matchInOrder returns the candidates fuzzy-matching pattern, keeping
// registry order rather than match score.
func matchInOrder(pattern string, candidates []string) []string {
	if pattern == "" {
		return candidates
	}
	matched := make([]bool, len(candidates))
	for _, match := range fuzzy.Find(pattern, candidates) {
		matched[match.Index] = true
	}
	out := make([]string, 0, len(candidates))
	for i, v := range candidates {
		if matched[i] {
			out = append(out, v)
		}
	}
	return out
}
