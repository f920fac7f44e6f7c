package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
	"navhub/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err as an error message
func (s *ViewState) SetError(err error) {
	s.SetMessage(err.Error(), true)
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type (
	SwitchToDashboardMsg struct{}
	SwitchToSourcesMsg   struct{}
	SwitchToSearchMsg    struct{}
	SwitchToHelpMsg      struct{}

	// SwitchToFormMsg opens the site or category form
	SwitchToFormMsg struct {
		Mode       FormMode
		CategoryID string
		Site       domain.Site
	}

	// SwitchToConfirmMsg asks before running OnConfirm
	SwitchToConfirmMsg struct {
		Prompt    string
		Target    string
		OnConfirm tea.Cmd
	}
)

// FlashMsg reports the outcome of an action on the dashboard.
// Changed asks the dashboard to rebuild from the workspace.
type FlashMsg struct {
	Text    string
	Err     error
	Changed bool
}

// DocumentChangedMsg tells the dashboard to rebuild from the workspace
type DocumentChangedMsg struct{}

// OpenURLMsg asks the app to open a site in the browser
type OpenURLMsg struct {
	URL string
}

// SyncStateMsg carries a sync state transition
type SyncStateMsg struct {
	State domain.SyncState
}

// changed reports a successful edit of the active document
func changed(text string) tea.Msg {
	return FlashMsg{Text: text, Changed: true}
}

// failed reports an error without rebuilding the dashboard
func failed(err error) tea.Msg {
	return FlashMsg{Err: err}
}

func switchTo(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderSyncStatus renders the sync badge and its detail text
func RenderSyncStatus(state domain.SyncState) string {
	name := state.Status.String()
	badge := styles.SyncBadge(name).Render("sync " + name)
	switch {
	case !state.Connected():
		return badge
	case state.Status == domain.SyncError && state.LastError != "":
		return badge + " " + styles.ErrorMsg.Render(truncate(state.LastError, 60))
	case !state.LastSyncTime.IsZero():
		return badge + " " + styles.StatusText.Render(state.Repository+" @ "+state.LastSyncTime.Format("15:04:05"))
	default:
		return badge + " " + styles.StatusText.Render(state.Repository)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
