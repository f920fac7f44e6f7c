package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, switchTo(SwitchToDashboardMsg{})
		}
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("navhub"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Bookmark dashboard"))
	b.WriteString("\n\n")

	section(&b, "Navigation",
		"j / k / ↑ / ↓", "Move up/down",
		"pgup / pgdn", "Page up/down",
		"enter / o", "Open site in browser",
		"y", "Copy site URL",
		"/", "Search sites",
		"tab", "Choose data source",
	)
	section(&b, "Web search (from /)",
		"ctrl+w", "Search the web for the query",
		"ctrl+g", "Next engine group",
		"ctrl+a", "First engine / all engines of the group",
	)
	section(&b, "Editing",
		"a", "Add site to the current category",
		"e", "Edit site, or rename category",
		"d", "Delete site",
		"J / K", "Move site down/up",
		"c", "New category",
	)
	section(&b, "Sync & preferences",
		"s", "Pull from the remote repository",
		"p", "Push to the remote repository",
		"t", "Toggle light/dark theme",
		"x", "Show/hide sites that need a proxy",
	)
	section(&b, "General",
		"?", "Toggle help",
		"q / Ctrl+C", "Quit",
	)

	b.WriteString(styles.MutedText.Render("On built-in sources only My Links survives a reload."))
	b.WriteString("\n\n")
	b.WriteString(RenderKeyHelp(HelpKeys.Close))

	return styles.App.Render(b.String())
}

func section(b *strings.Builder, title string, pairs ...string) {
	b.WriteString(styles.InputLabel.Render(title))
	b.WriteString("\n")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString("  ")
		b.WriteString(styles.HelpKey.Render(padRight(pairs[i], 18)))
		b.WriteString(styles.HelpDesc.Render(pairs[i+1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
