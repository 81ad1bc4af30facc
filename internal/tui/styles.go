// Package tui provides the interactive version picker.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"updater/pkg/versioncheck"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F3F4F6") // Light gray
	ColorBgAlt     = lipgloss.Color("#374151")
)

// StabilityColors maps version stability to its list color.
var StabilityColors = map[versioncheck.Stability]lipgloss.Color{
	versioncheck.StabilityStable:     ColorSuccess,
	versioncheck.StabilityPrerelease: ColorWarning,
	versioncheck.StabilityDev:        ColorPrimary,
	versioncheck.StabilityUnknown:    ColorMuted,
}

// Styles contains the lipgloss styles used by the picker.
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	Badge            lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() *Styles {
	s := &Styles{}

	s.Header = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBgAlt).
		Padding(0, 1).
		Bold(true)

	s.Footer = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)

	s.ListItem = lipgloss.NewStyle().
		PaddingLeft(2)

	s.ListItemSelected = lipgloss.NewStyle().
		PaddingLeft(1).
		Foreground(ColorSecondary).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorPrimary)

	s.Badge = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	s.Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	s.Error = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	s.Muted = lipgloss.NewStyle().Foreground(ColorMuted)

	return s
}

// VersionStyle returns the style for a version's stability.
func (s *Styles) VersionStyle(v string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StabilityColors[versioncheck.StabilityOf(v)])
}
