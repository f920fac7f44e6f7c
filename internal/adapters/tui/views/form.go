package views

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
	"navhub/internal/application/commands"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
	"navhub/internal/config"
)

// FormMode selects what the form edits
type FormMode int

const (
	FormAddSite FormMode = iota
	FormEditSite
	FormAddCategory
	FormRenameCategory
	FormImport
)

func (m FormMode) title() string {
	switch m {
	case FormAddSite:
		return "Add Site"
	case FormEditSite:
		return "Edit Site"
	case FormAddCategory:
		return "New Category"
	case FormRenameCategory:
		return "Rename Category"
	case FormImport:
		return "Import Bookmarks"
	default:
		return "Form"
	}
}

// site form field order
const (
	fieldTitle = iota
	fieldURL
	fieldDesc
	fieldIcon
	fieldProxy
)

// import form field order
const (
	fieldSourceName = iota
	fieldFilePath
)

// FormModel is the shared form for sites, categories and imports
type FormModel struct {
	ViewState
	ws         *workspace.Workspace
	mode       FormMode
	categoryID string
	site       domain.Site
	form       *InputForm
}

// NewFormModel creates a form view bound to the workspace
func NewFormModel(ws *workspace.Workspace) *FormModel {
	return &FormModel{ws: ws}
}

// Open prepares the form for a mode, pre-filling it from the message
func (m *FormModel) Open(msg SwitchToFormMsg) tea.Cmd {
	m.mode = msg.Mode
	m.categoryID = msg.CategoryID
	m.site = msg.Site
	m.ClearMessage()

	switch msg.Mode {
	case FormAddSite, FormEditSite:
		m.form = NewInputForm(
			NewInputField("Title", "Site name", 80, true),
			NewInputField("URL", "https://", 2048, true),
			NewInputField("Description", "optional", 200, false),
			NewInputField("Icon", "favicon URL, blank for default", 2048, false),
			NewInputField("Needs proxy", "y/n", 3, false),
		)
		if msg.Mode == FormEditSite {
			m.form.SetValue(fieldTitle, msg.Site.Title)
			m.form.SetValue(fieldURL, msg.Site.URL)
			m.form.SetValue(fieldDesc, msg.Site.Description)
			m.form.SetValue(fieldIcon, msg.Site.Icon)
			if msg.Site.RequiresProxy {
				m.form.SetValue(fieldProxy, "y")
			}
		}
	case FormAddCategory, FormRenameCategory:
		m.form = NewInputForm(NewInputField("Name", "Category name", 60, true))
		if msg.Mode == FormRenameCategory {
			doc := m.ws.Document()
			if i := doc.CategoryIndex(msg.CategoryID); i >= 0 {
				m.form.SetValue(0, doc.Categories[i].Name)
			}
		}
	case FormImport:
		m.form = NewInputForm(
			NewInputField("Source name", "e.g. Work", 60, true),
			NewInputField("File", "bookmarks.html or navhub .json", 1024, true),
		)
	}
	return m.form.Init()
}

// Init implements tea.Model
func (m *FormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the form
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case formErrMsg:
		m.SetError(msg.err)
		return m, nil

	case formDoneMsg:
		text := msg.text
		return m, tea.Batch(
			switchTo(SwitchToDashboardMsg{}),
			func() tea.Msg { return changed(text) },
		)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, switchTo(SwitchToDashboardMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			if err := m.form.Missing(); err != nil {
				m.SetError(err)
				return m, nil
			}
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

type formErrMsg struct {
	err error
}

// submit runs the command for the current mode. Errors keep the form open.
func (m *FormModel) submit() tea.Cmd {
	ws := m.ws
	mode := m.mode
	categoryID := m.categoryID
	site := m.siteFromFields()
	name := m.form.Value(0)
	path := m.form.Value(fieldFilePath)

	return func() tea.Msg {
		ctx := context.Background()
		var text string
		switch mode {
		case FormAddSite:
			res, err := commands.NewAddSiteCommand(ws, categoryID, site).Execute(ctx)
			if err != nil {
				return formErrMsg{err}
			}
			text = res.Message
		case FormEditSite:
			res, err := commands.NewEditSiteCommand(ws, site).Execute(ctx)
			if err != nil {
				return formErrMsg{err}
			}
			text = res.Message
		case FormAddCategory:
			res, err := commands.NewAddCategoryCommand(ws, name).Execute(ctx)
			if err != nil {
				return formErrMsg{err}
			}
			text = res.Message
		case FormRenameCategory:
			res, err := commands.NewRenameCategoryCommand(ws, categoryID, name).Execute(ctx)
			if err != nil {
				return formErrMsg{err}
			}
			text = res.Message
		case FormImport:
			data, err := os.ReadFile(config.ExpandHome(path))
			if err != nil {
				return formErrMsg{err}
			}
			res, err := commands.NewImportCommand(ws, name, data).Execute(ctx)
			if err != nil {
				return formErrMsg{err}
			}
			text = res.Message
		}
		return formDoneMsg{text: text}
	}
}

type formDoneMsg struct {
	text string
}

func (m *FormModel) siteFromFields() domain.Site {
	s := m.site
	if m.mode != FormAddSite && m.mode != FormEditSite {
		return s
	}
	s.Title = m.form.Value(fieldTitle)
	s.URL = m.form.Value(fieldURL)
	s.Description = m.form.Value(fieldDesc)
	s.Icon = m.form.Value(fieldIcon)
	switch strings.ToLower(m.form.Value(fieldProxy)) {
	case "y", "yes", "true":
		s.RequiresProxy = true
	default:
		s.RequiresProxy = false
	}
	return s
}

// View renders the form
func (m *FormModel) View() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.mode.title()))
	b.WriteString("\n")
	if sub := m.subtitle(); sub != "" {
		b.WriteString(styles.Subtitle.Render(sub))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.form.View())
	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n\n")
	}
	b.WriteString(m.form.RenderHelp("save"))
	return styles.App.Render(b.String())
}

func (m *FormModel) subtitle() string {
	switch m.mode {
	case FormAddSite, FormRenameCategory:
		doc := m.ws.Document()
		if i := doc.CategoryIndex(m.categoryID); i >= 0 {
			return fmt.Sprintf("in %s", doc.Categories[i].Name)
		}
	case FormImport:
		return "Browser bookmark export (HTML) or a navhub JSON document"
	}
	return ""
}
