package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"navhub/internal/adapters/tui/styles"
	"navhub/internal/application"
	"navhub/internal/application/commands"
	"navhub/internal/application/syncer"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// DashboardKeyMap defines key bindings for the dashboard
type DashboardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Open        key.Binding
	Yank        key.Binding
	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	NewCategory key.Binding
	Search      key.Binding
	Sources     key.Binding
	Pull        key.Binding
	Push        key.Binding
	Theme       key.Binding
	Proxy       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var DashboardKeys = DashboardKeyMap{
	Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Open:        key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "open")),
	Yank:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy URL")),
	Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	MoveUp:      key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
	MoveDown:    key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
	NewCategory: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new category")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sources:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sources")),
	Pull:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pull")),
	Push:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "push")),
	Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Proxy:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "proxy sites")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// row is one line of the dashboard: a category header (site < 0) or a site.
// site indexes the category's full site list, hidden sites included.
type row struct {
	category int
	site     int
}

func (r row) isHeader() bool {
	return r.site < 0
}

// DashboardModel lists the categories and sites of the active source
type DashboardModel struct {
	ViewState
	ws        *workspace.Workspace
	sync      *syncer.Orchestrator
	doc       domain.NavDocument
	rows      []row
	list      *ScrollList
	showProxy bool
	syncState domain.SyncState
}

// NewDashboardModel creates the dashboard. sync may be nil when no remote is configured.
func NewDashboardModel(ws *workspace.Workspace, sync *syncer.Orchestrator) *DashboardModel {
	m := &DashboardModel{
		ws:   ws,
		sync: sync,
		list: NewScrollList(20),
	}
	if sync != nil {
		m.syncState = sync.State()
	}
	m.Reload()
	return m
}

// Init implements tea.Model
func (m *DashboardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions and the number of visible rows
func (m *DashboardModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// title, subtitle, blank, message, status bar, help
	m.list.SetHeight(height - 8)
}

// SetSyncState records the latest sync transition for the status bar
func (m *DashboardModel) SetSyncState(state domain.SyncState) {
	m.syncState = state
}

// Reload rebuilds the rows from the workspace, keeping the cursor on the same entry
func (m *DashboardModel) Reload() {
	var keepSite, keepCategory string
	if r, ok := m.current(); ok {
		keepCategory = m.doc.Categories[r.category].ID
		if !r.isHeader() {
			keepSite = m.doc.Categories[r.category].Sites[r.site].ID
		}
	}

	_, m.showProxy = m.ws.Preferences()
	m.doc = m.ws.Document()
	m.rows = m.rows[:0]
	for ci, c := range m.doc.Categories {
		m.rows = append(m.rows, row{category: ci, site: -1})
		for si, s := range c.Sites {
			if s.RequiresProxy && !m.showProxy {
				continue
			}
			m.rows = append(m.rows, row{category: ci, site: si})
		}
	}
	m.list.SetTotal(len(m.rows))

	for i, r := range m.rows {
		c := m.doc.Categories[r.category]
		if keepSite != "" && !r.isHeader() && c.Sites[r.site].ID == keepSite {
			m.list.SetCursor(i)
			return
		}
		if keepSite == "" && keepCategory != "" && r.isHeader() && c.ID == keepCategory {
			m.list.SetCursor(i)
			return
		}
	}
}

func (m *DashboardModel) current() (row, bool) {
	i := m.list.Cursor()
	if i < 0 || i >= len(m.rows) {
		return row{}, false
	}
	return m.rows[i], true
}

// SelectedSite returns the site under the cursor
func (m *DashboardModel) SelectedSite() (domain.Site, bool) {
	r, ok := m.current()
	if !ok || r.isHeader() {
		return domain.Site{}, false
	}
	return m.doc.Categories[r.category].Sites[r.site], true
}

// SelectedCategory returns the category under the cursor or owning the selected site
func (m *DashboardModel) SelectedCategory() (domain.Category, bool) {
	r, ok := m.current()
	if !ok {
		return domain.Category{}, false
	}
	return m.doc.Categories[r.category], true
}

// Update handles messages for the dashboard
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := DashboardKeys
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Up):
		m.list.Move(-1)
	case key.Matches(msg, keys.Down):
		m.list.Move(1)
	case key.Matches(msg, keys.PageUp):
		m.list.Page(-1)
	case key.Matches(msg, keys.PageDown):
		m.list.Page(1)

	case key.Matches(msg, keys.Open):
		if s, ok := m.SelectedSite(); ok {
			return switchTo(OpenURLMsg{URL: s.URL})
		}

	case key.Matches(msg, keys.Yank):
		if s, ok := m.SelectedSite(); ok {
			if err := clipboard.WriteAll(s.URL); err != nil {
				m.SetError(err)
			} else {
				m.SetMessage("Copied "+s.URL, false)
			}
		}

	case key.Matches(msg, keys.Add):
		c, ok := m.SelectedCategory()
		if !ok {
			c = domain.NewPersonalCategory()
		}
		return switchTo(SwitchToFormMsg{Mode: FormAddSite, CategoryID: c.ID})

	case key.Matches(msg, keys.Edit):
		if s, ok := m.SelectedSite(); ok {
			return switchTo(SwitchToFormMsg{Mode: FormEditSite, Site: s})
		}
		if c, ok := m.SelectedCategory(); ok {
			return switchTo(SwitchToFormMsg{Mode: FormRenameCategory, CategoryID: c.ID})
		}

	case key.Matches(msg, keys.Delete):
		if s, ok := m.SelectedSite(); ok {
			return switchTo(SwitchToConfirmMsg{
				Prompt:    "Delete this site?",
				Target:    s.Title + "  " + s.URL,
				OnConfirm: m.deleteSite(s.ID),
			})
		}

	case key.Matches(msg, keys.MoveUp):
		return m.moveSite(-1)
	case key.Matches(msg, keys.MoveDown):
		return m.moveSite(1)

	case key.Matches(msg, keys.NewCategory):
		return switchTo(SwitchToFormMsg{Mode: FormAddCategory})
	case key.Matches(msg, keys.Search):
		return switchTo(SwitchToSearchMsg{})
	case key.Matches(msg, keys.Sources):
		return switchTo(SwitchToSourcesMsg{})
	case key.Matches(msg, keys.Help):
		return switchTo(SwitchToHelpMsg{})

	case key.Matches(msg, keys.Pull):
		return m.pull()
	case key.Matches(msg, keys.Push):
		return m.push()
	case key.Matches(msg, keys.Theme):
		return m.toggleTheme()
	case key.Matches(msg, keys.Proxy):
		return m.toggleProxy()
	}
	return nil
}

func (m *DashboardModel) deleteSite(siteID string) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		res, err := commands.NewDeleteSiteCommand(ws, siteID).Execute(context.Background())
		if err != nil {
			return failed(err)
		}
		return changed(res.Message)
	}
}

func (m *DashboardModel) moveSite(delta int) tea.Cmd {
	r, ok := m.current()
	if !ok || r.isHeader() {
		return nil
	}
	c := m.doc.Categories[r.category]
	target := r.site + delta
	if target < 0 || target >= len(c.Sites) {
		return nil
	}
	ws := m.ws
	siteID := c.Sites[r.site].ID
	return func() tea.Msg {
		if _, err := commands.NewMoveSiteCommand(ws, siteID, c.ID, target).Execute(context.Background()); err != nil {
			return failed(err)
		}
		return changed("")
	}
}

func (m *DashboardModel) pull() tea.Cmd {
	if m.sync == nil {
		m.SetError(application.ErrNotConnected)
		return nil
	}
	ws, sync := m.ws, m.sync
	m.SetMessage("Pulling...", false)
	return func() tea.Msg {
		res, err := commands.NewPullCommand(ws, sync).Execute(context.Background())
		if err != nil {
			return failed(err)
		}
		return changed(res.Message)
	}
}

func (m *DashboardModel) push() tea.Cmd {
	if m.sync == nil {
		m.SetError(application.ErrNotConnected)
		return nil
	}
	sync := m.sync
	m.SetMessage("Pushing...", false)
	return func() tea.Msg {
		res, err := commands.NewPushCommand(sync).Execute(context.Background())
		if err != nil {
			return failed(err)
		}
		return FlashMsg{Text: res.Message}
	}
}

func (m *DashboardModel) toggleTheme() tea.Cmd {
	next := "light"
	if theme, _ := m.ws.Preferences(); theme == "light" {
		next = "dark"
	}
	msg, err := commands.NewSetThemeCommand(m.ws, next).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return nil
	}
	styles.Apply(next)
	m.SetMessage(msg, false)
	return nil
}

func (m *DashboardModel) toggleProxy() tea.Cmd {
	msg, err := commands.NewSetProxyDisplayCommand(m.ws, !m.showProxy).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return nil
	}
	m.SetMessage(msg, false)
	m.Reload()
	return nil
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("navhub"))
	b.WriteString("  ")
	b.WriteString(styles.Subtitle.Render(m.sourceName()))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.MutedText.Render("No sites yet. Press a to add one."))
		b.WriteString("\n")
	}
	start, end := m.list.Visible()
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.list.Cursor()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	keys := DashboardKeys
	b.WriteString(RenderHelpLine(keys.Open, keys.Add, keys.Edit, keys.Delete, keys.Search, keys.Sources, keys.Help, keys.Quit))

	return styles.App.Render(b.String())
}

func (m *DashboardModel) sourceName() string {
	id := m.ws.Current()
	if src, ok := m.ws.Registry().Resolve(id); ok {
		return src.Name
	}
	return id
}

func (m *DashboardModel) renderRow(r row, selected bool) string {
	c := m.doc.Categories[r.category]
	if r.isHeader() {
		label := fmt.Sprintf("%s (%d)", c.Name, len(c.Sites))
		style := styles.Category
		if c.IsPersonal() {
			style = styles.Personal
		}
		if selected {
			return styles.Selected.Render("▸ " + label)
		}
		return style.Render("  " + label)
	}

	s := c.Sites[r.site]
	title := truncate(s.Title, 40)
	line := "    " + title
	if selected {
		line = styles.Selected.Render("  ▸ " + title)
	} else {
		line = styles.Site.Render(line)
	}
	line += "  " + styles.SiteURL.Render(truncate(s.URL, 60))
	if s.RequiresProxy {
		line += " " + styles.Proxy.Render("[proxy]")
	}
	if selected && s.Description != "" {
		line += "\n      " + styles.MutedText.Render(truncate(s.Description, 80))
	}
	return line
}

func (m *DashboardModel) renderStatusBar() string {
	left := RenderSyncStatus(m.syncState)
	right := styles.StatusText.Render(fmt.Sprintf("%d sites", m.doc.SiteCount()))
	if !m.showProxy {
		right += styles.StatusText.Render(" · proxy hidden")
	}
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}
