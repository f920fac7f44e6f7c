package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for the confirmation view
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmModel asks a yes/no question before running a destructive action
type ConfirmModel struct {
	ViewState
	Prompt    string
	Target    string
	onConfirm tea.Cmd
	Keys      ConfirmKeyMap
}

// NewConfirmModel creates a new confirmation model with default keys
func NewConfirmModel() *ConfirmModel {
	return &ConfirmModel{Keys: DefaultConfirmKeys}
}

// Ask arms the model with a question and the action to run on "y"
func (m *ConfirmModel) Ask(prompt, target string, onConfirm tea.Cmd) {
	m.Prompt = prompt
	m.Target = target
	m.onConfirm = onConfirm
	m.ClearMessage()
}

// Init implements tea.Model
func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles the confirm and cancel keys
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Cancel):
			m.onConfirm = nil
			return m, switchTo(SwitchToDashboardMsg{})
		case key.Matches(msg, m.Keys.Confirm):
			action := m.onConfirm
			m.onConfirm = nil
			return m, tea.Sequence(switchTo(SwitchToDashboardMsg{}), action)
		}
	}
	return m, nil
}

// View renders the prompt and its target
func (m *ConfirmModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Confirm"))
	b.WriteString("\n\n")
	if m.Target != "" {
		b.WriteString(styles.InputLabel.Render(m.Target))
		b.WriteString("\n\n")
	}
	b.WriteString(m.Prompt)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return styles.App.Render(b.String())
}
