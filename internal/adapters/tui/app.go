package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
	"navhub/internal/adapters/tui/views"
	"navhub/internal/application/syncer"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
	"navhub/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewSources
	ViewSearch
	ViewForm
	ViewConfirm
	ViewHelp
)

// Deps are the collaborators the TUI drives
type Deps struct {
	Workspace *workspace.Workspace
	// Sync is nil when no remote is configured
	Sync    *syncer.Orchestrator
	Opener  ports.URLOpener
	Engines domain.EngineCatalog
}

// App is the main TUI application model
type App struct {
	deps Deps

	state     ViewState
	dashboard *views.DashboardModel
	sources   *views.SourcesModel
	search    *views.SearchModel
	form      *views.FormModel
	confirm   *views.ConfirmModel
	help      *views.HelpModel

	syncCh      chan domain.SyncState
	unsubscribe func()

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(deps Deps) *App {
	theme, _ := deps.Workspace.Preferences()
	styles.Apply(theme)

	a := &App{
		deps:      deps,
		state:     ViewDashboard,
		dashboard: views.NewDashboardModel(deps.Workspace, deps.Sync),
		sources:   views.NewSourcesModel(deps.Workspace),
		search:    views.NewSearchModel(deps.Workspace, deps.Engines),
		form:      views.NewFormModel(deps.Workspace),
		confirm:   views.NewConfirmModel(),
		help:      views.NewHelpModel(),
	}

	if deps.Sync != nil {
		// buffered so a burst of transitions never blocks the orchestrator
		a.syncCh = make(chan domain.SyncState, 16)
		a.unsubscribe = deps.Sync.Subscribe(func(s domain.SyncState) {
			select {
			case a.syncCh <- s:
			default:
			}
		})
	}
	return a
}

// Close detaches the app from the sync orchestrator
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.waitForSync()
}

// waitForSync blocks on the next sync transition; it is re-armed after each one
func (a *App) waitForSync() tea.Cmd {
	if a.syncCh == nil {
		return nil
	}
	ch := a.syncCh
	return func() tea.Msg {
		return views.SyncStateMsg{State: <-ch}
	}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.sources.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.form.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SyncStateMsg:
		a.dashboard.SetSyncState(msg.State)
		return a, a.waitForSync()

	// View switching messages
	case views.SwitchToDashboardMsg:
		a.state = ViewDashboard
		a.dashboard.Reload()
		return a, nil

	case views.SwitchToSourcesMsg:
		a.state = ViewSources
		a.sources.Reset()
		return a, nil

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToFormMsg:
		a.state = ViewForm
		return a, a.form.Open(msg)

	case views.SwitchToConfirmMsg:
		a.state = ViewConfirm
		a.confirm.Ask(msg.Prompt, msg.Target, msg.OnConfirm)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.FlashMsg:
		if msg.Changed {
			a.dashboard.Reload()
		}
		switch {
		case msg.Err != nil:
			a.dashboard.SetError(msg.Err)
		case msg.Text != "":
			a.dashboard.SetMessage(msg.Text, false)
		default:
			a.dashboard.ClearMessage()
		}
		// preferences may have arrived with a pull
		theme, _ := a.deps.Workspace.Preferences()
		if theme != styles.Current() {
			styles.Apply(theme)
		}
		return a, nil

	case views.DocumentChangedMsg:
		a.dashboard.Reload()
		return a, nil

	case views.OpenURLMsg:
		return a, a.openURL(msg.URL)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewDashboard:
		_, cmd = a.dashboard.Update(msg)
	case ViewSources:
		_, cmd = a.sources.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewForm:
		_, cmd = a.form.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) openURL(url string) tea.Cmd {
	if a.deps.Opener == nil {
		return nil
	}
	opener := a.deps.Opener
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return views.FlashMsg{Err: err}
		}
		return views.FlashMsg{Text: "Opened " + url}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewSources:
		return a.sources.View()
	case ViewSearch:
		return a.search.View()
	case ViewForm:
		return a.form.View()
	case ViewConfirm:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.dashboard.View()
	}
}
