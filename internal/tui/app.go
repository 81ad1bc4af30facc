package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"updater/pkg/versioncheck"
)

type versionsLoadedMsg struct {
	versions []string
	err      error
}

// App wraps the Model with bubbletea components.
type App struct {
	*Model
	styles    *Styles
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	textInput textinput.Model
	filtering bool
}

// NewApp creates a picker application.
func NewApp(ctx context.Context, source Source, showDev bool) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	ti := textinput.New()
	ti.Placeholder = "filter versions..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30

	return &App{
		Model:     NewModel(ctx, source, showDev),
		styles:    DefaultStyles(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		textInput: ti,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.load(false))
}

func (a *App) load(refresh bool) tea.Cmd {
	ctx, source := a.ctx, a.source
	return func() tea.Msg {
		var versions []string
		var err error
		if refresh {
			versions, err = source.Refresh(ctx)
		} else {
			versions, err = source.AvailableVersions(ctx)
		}
		return versionsLoadedMsg{versions: versions, err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.help.Width = msg.Width

	case versionsLoadedMsg:
		if msg.err != nil {
			a.SetError(msg.err)
		} else {
			a.SetVersions(msg.versions)
		}

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}

	case tea.KeyMsg:
		if a.filtering {
			return a.updateFilter(msg)
		}
		return a.updateList(msg)
	}

	return a, nil
}

func (a *App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		a.filtering = false
		a.textInput.Blur()
		return a, nil
	case tea.KeyEsc:
		a.filtering = false
		a.textInput.Blur()
		a.textInput.SetValue("")
		a.SetFilter("")
		return a, nil
	}

	var cmd tea.Cmd
	a.textInput, cmd = a.textInput.Update(msg)
	a.SetFilter(a.textInput.Value())
	return a, cmd
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Cancel):
		a.textInput.SetValue("")
		a.SetFilter("")
	case key.Matches(msg, a.keys.Up):
		a.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.MoveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.MoveCursor(-a.VisibleHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.MoveCursor(a.VisibleHeight())
	case key.Matches(msg, a.keys.Home):
		a.GoToTop()
	case key.Matches(msg, a.keys.End):
		a.GoToBottom()
	case key.Matches(msg, a.keys.ToggleDev):
		a.ToggleDev()
	case key.Matches(msg, a.keys.Filter):
		a.filtering = true
		return a, a.textInput.Focus()
	case key.Matches(msg, a.keys.Refresh):
		if !a.loading {
			a.loading = true
			return a, tea.Batch(a.spinner.Tick, a.load(true))
		}
	case key.Matches(msg, a.keys.Select):
		if a.Select() {
			return a, tea.Quit
		}
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting || a.selected != "" {
		return ""
	}

	var b strings.Builder

	title := "Versions of " + a.source.Package()
	if !a.showDev {
		title += " (stable only)"
	}
	b.WriteString(a.styles.Header.Render(title))
	b.WriteString("\n\n")

	switch {
	case a.loading:
		b.WriteString(a.spinner.View() + " Querying composer...\n")
	case a.errorMsg != "":
		b.WriteString(a.styles.Error.Render("Error: "+a.errorMsg) + "\n")
	case len(a.visible) == 0:
		b.WriteString(a.styles.Muted.Render("  No versions match") + "\n")
	default:
		a.renderList(&b)
	}

	if a.filtering || a.filter != "" {
		b.WriteString(a.textInput.View() + "\n")
	}

	status := fmt.Sprintf("%d of %d versions", len(a.visible), len(a.versions))
	b.WriteString(a.styles.Footer.Render(status) + "\n")
	b.WriteString(a.styles.Footer.Render(a.help.View(a.keys)))

	return b.String()
}

func (a *App) renderList(b *strings.Builder) {
	end := a.scroll + a.VisibleHeight()
	if end > len(a.visible) {
		end = len(a.visible)
	}

	for i := a.scroll; i < end; i++ {
		v := a.visible[i]
		line := a.styles.VersionStyle(v).Render(v) + " " + a.styles.Muted.Render(versioncheck.StabilityOf(v).String())
		switch v {
		case a.latest:
			line += " " + a.styles.Badge.Render("latest")
		case a.latestDev:
			line += " " + a.styles.Badge.Render("latest dev")
		}

		if i == a.cursor {
			b.WriteString(a.styles.ListItemSelected.Render(line))
		} else {
			b.WriteString(a.styles.ListItem.Render(line))
		}
		b.WriteString("\n")
	}
}

// Run starts the picker and returns the chosen version, or "" when the user
// quit without choosing.
func Run(ctx context.Context, source Source, showDev bool) (string, error) {
	app := NewApp(ctx, source, showDev)
	p := tea.NewProgram(app, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return "", fmt.Errorf("version picker failed: %w", err)
	}
	if app.errorMsg != "" && app.selected == "" {
		return "", fmt.Errorf("failed to load versions: %s", app.errorMsg)
	}
	return app.Selected(), nil
}
