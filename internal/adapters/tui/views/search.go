package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
	"navhub/internal/application/commands"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Yank   key.Binding
	Web    key.Binding
	Group  key.Binding
	All    key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Yank: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy URL"),
	),
	Web: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "web search"),
	),
	Group: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "engine group"),
	),
	All: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "all engines"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const maxSearchResults = 12

// SearchModel runs fuzzy searches over the sites of the active source.
// The same query can be sent to the web search engines of a group.
type SearchModel struct {
	ViewState
	ws      *workspace.Workspace
	engines domain.EngineCatalog
	input   textinput.Model
	results []commands.SearchResult
	cursor  int
	query   string

	group      domain.EngineGroup
	allEngines bool
}

// NewSearchModel creates a new search view model
func NewSearchModel(ws *workspace.Workspace, engines domain.EngineCatalog) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search sites..."
	input.Focus()

	group, _ := engines.Group("")
	return &SearchModel{
		ws:      ws,
		engines: engines,
		input:   input,
		group:   group,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.input.Focus()
	m.results = nil
	m.cursor = 0
	m.query = ""
	m.ClearMessage()
}

type searchResultsMsg struct {
	query   string
	results []commands.SearchResult
	err     error
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case searchResultsMsg:
		// drop results for a query the user already typed past
		if msg.query != m.query {
			return m, nil
		}
		if msg.err != nil {
			m.SetError(msg.err)
		}
		m.results = msg.results
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, switchTo(SwitchToDashboardMsg{})

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < min(len(m.results), maxSearchResults)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Open):
			if r, ok := m.selected(); ok {
				return m, tea.Batch(
					switchTo(SwitchToDashboardMsg{}),
					switchTo(OpenURLMsg{URL: r.Site.URL}),
				)
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Web):
			return m, m.webSearch()

		case key.Matches(msg, SearchKeys.Group):
			m.group = m.engines.NextGroup(m.group.Value)
			return m, nil

		case key.Matches(msg, SearchKeys.All):
			m.allEngines = !m.allEngines
			return m, nil

		case key.Matches(msg, SearchKeys.Yank):
			if r, ok := m.selected(); ok {
				if err := clipboard.WriteAll(r.Site.URL); err != nil {
					m.SetError(err)
				} else {
					m.SetMessage("Copied "+r.Site.URL, false)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if q := m.input.Value(); q != m.query {
		m.query = q
		if len(strings.TrimSpace(q)) < 2 {
			m.results = nil
			return m, cmd
		}
		return m, tea.Batch(cmd, m.search(q))
	}
	return m, cmd
}

func (m *SearchModel) selected() (commands.SearchResult, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return commands.SearchResult{}, false
	}
	return m.results[m.cursor], true
}

// webSearch builds the engine URLs for the query and hands them to the app to open
func (m *SearchModel) webSearch() tea.Cmd {
	if m.engines.Empty() {
		m.SetMessage("No web search engines configured", true)
		return nil
	}
	var names []string
	if m.allEngines {
		for _, e := range m.engines.GroupEngines(m.group.Value) {
			names = append(names, e.Name)
		}
	}
	res, err := commands.NewWebSearchCommand(m.engines, nil, m.input.Value(), m.group.Value, names...).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return nil
	}

	cmds := []tea.Cmd{switchTo(SwitchToDashboardMsg{})}
	for _, u := range res.URLs {
		cmds = append(cmds, switchTo(OpenURLMsg{URL: u}))
	}
	return tea.Batch(cmds...)
}

func (m *SearchModel) engineLine() string {
	if m.engines.Empty() {
		return ""
	}
	engines := m.engines.GroupEngines(m.group.Value)
	if len(engines) == 0 {
		return fmt.Sprintf("Web: %s (no engines)", m.group.Label)
	}
	names := engines[0].Name
	if m.allEngines {
		parts := make([]string, len(engines))
		for i, e := range engines {
			parts[i] = e.Name
		}
		names = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Web: %s › %s", m.group.Label, names)
}

func (m *SearchModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := commands.NewSearchCommand(m.ws, query).Execute(context.Background())
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n")
	if line := m.engineLine(); line != "" {
		b.WriteString(styles.MutedText.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case len(m.results) > 0:
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d results", len(m.results))))
		b.WriteString("\n\n")
		shown := min(len(m.results), maxSearchResults)
		for i := 0; i < shown; i++ {
			b.WriteString(m.renderResult(m.results[i], i == m.cursor))
			b.WriteString("\n")
		}
		if len(m.results) > shown {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("... and %d more", len(m.results)-shown)))
			b.WriteString("\n")
		}
	case len(strings.TrimSpace(m.query)) >= 2:
		b.WriteString(styles.MutedText.Render("No results found"))
		b.WriteString("\n")
	default:
		b.WriteString(styles.MutedText.Render("Type at least 2 characters to search"))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(SearchKeys.Open, SearchKeys.Yank, SearchKeys.Web, SearchKeys.Group, SearchKeys.All, SearchKeys.Cancel))

	return styles.App.Render(b.String())
}

func (m *SearchModel) renderResult(r commands.SearchResult, selected bool) string {
	text := fmt.Sprintf("%s  %s", r.Site.Title, styles.MutedText.Render(r.CategoryName))
	if selected {
		return styles.Selected.Render("> "+r.Site.Title) + "  " + styles.SiteURL.Render(r.Site.URL)
	}
	return "  " + text
}
