package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
	"navhub/internal/application/commands"
	"navhub/internal/application/workspace"
)

// SourcesKeyMap defines key bindings for the source picker
type SourcesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Import key.Binding
	Delete key.Binding
	Back   key.Binding
}

var SourcesKeys = SourcesKeyMap{
	Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Switch: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch")),
	Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Back:   key.NewBinding(key.WithKeys("esc", "tab", "q"), key.WithHelp("esc", "back")),
}

// SourcesModel lets the user pick, import and delete data sources
type SourcesModel struct {
	ViewState
	ws      *workspace.Workspace
	sources []commands.SourceInfo
	list    *ScrollList
}

// NewSourcesModel creates the source picker
func NewSourcesModel(ws *workspace.Workspace) *SourcesModel {
	return &SourcesModel{
		ws:   ws,
		list: NewScrollList(15),
	}
}

// Init implements tea.Model
func (m *SourcesModel) Init() tea.Cmd {
	return nil
}

// Reset reloads the source list and puts the cursor on the active source
func (m *SourcesModel) Reset() {
	m.ClearMessage()
	sources, err := commands.NewListSourcesCommand(m.ws).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return
	}
	m.sources = sources
	m.list.SetTotal(len(sources))
	for i, s := range sources {
		if s.Active {
			m.list.SetCursor(i)
			break
		}
	}
}

// SetSize updates the view dimensions
func (m *SourcesModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.list.SetHeight(height - 7)
}

func (m *SourcesModel) selected() (commands.SourceInfo, bool) {
	i := m.list.Cursor()
	if i < 0 || i >= len(m.sources) {
		return commands.SourceInfo{}, false
	}
	return m.sources[i], true
}

type sourceErrMsg struct {
	err error
}

// Update handles messages for the source picker
func (m *SourcesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case sourceErrMsg:
		m.SetError(msg.err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SourcesKeys.Back):
			return m, switchTo(SwitchToDashboardMsg{})
		case key.Matches(msg, SourcesKeys.Up):
			m.list.Move(-1)
		case key.Matches(msg, SourcesKeys.Down):
			m.list.Move(1)
		case key.Matches(msg, SourcesKeys.Switch):
			if s, ok := m.selected(); ok {
				return m, m.switchSource(s)
			}
		case key.Matches(msg, SourcesKeys.Import):
			return m, switchTo(SwitchToFormMsg{Mode: FormImport})
		case key.Matches(msg, SourcesKeys.Delete):
			s, ok := m.selected()
			if !ok {
				return m, nil
			}
			if s.Builtin {
				m.SetMessage("Built-in sources cannot be deleted", true)
				return m, nil
			}
			return m, switchTo(SwitchToConfirmMsg{
				Prompt:    "Delete this source and all of its sites?",
				Target:    fmt.Sprintf("%s (%d sites)", s.Name, s.Sites),
				OnConfirm: m.deleteSource(s.Name),
			})
		}
	}
	return m, nil
}

func (m *SourcesModel) switchSource(s commands.SourceInfo) tea.Cmd {
	ws := m.ws
	m.SetMessage("Loading "+s.Name+"...", false)
	return func() tea.Msg {
		res, err := commands.NewSwitchSourceCommand(ws, s.Key, true).Execute(context.Background())
		if err != nil {
			return sourceErrMsg{err}
		}
		text := "Switched to " + res.Source.Name
		if res.FromCache {
			text += " (cached)"
		}
		return tea.BatchMsg{
			switchTo(SwitchToDashboardMsg{}),
			func() tea.Msg { return changed(text) },
		}
	}
}

func (m *SourcesModel) deleteSource(name string) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		res, err := commands.NewDeleteSourceCommand(ws, name).Execute(context.Background())
		if err != nil {
			return failed(err)
		}
		return changed(res.Message)
	}
}

// View renders the source list
func (m *SourcesModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Data Sources"))
	b.WriteString("\n\n")

	start, end := m.list.Visible()
	for i := start; i < end; i++ {
		s := m.sources[i]
		label := s.Name
		if s.Builtin {
			label += styles.MutedText.Render("  built-in")
		} else {
			label += styles.MutedText.Render(fmt.Sprintf("  %d sites", s.Sites))
		}
		marker := "  "
		if s.Active {
			marker = "* "
		}
		if i == m.list.Cursor() {
			b.WriteString(styles.Selected.Render("▸ " + marker + s.Name))
			b.WriteString(strings.TrimPrefix(label, s.Name))
		} else {
			b.WriteString("  " + marker + label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}
	b.WriteString(RenderHelpLine(SourcesKeys.Switch, SourcesKeys.Import, SourcesKeys.Delete, SourcesKeys.Back))

	return styles.App.Render(b.String())
}
