package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

// InputField is a labelled text input
type InputField struct {
	Label    string
	Required bool
	Input    textinput.Model
}

// InputForm manages a column of text inputs with one focused at a time
type InputForm struct {
	Fields  []InputField
	Focused int
	Keys    InputFormKeyMap
}

// NewInputField creates an input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int, required bool) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label:    label,
		Required: required,
		Input:    input,
	}
}

// NewInputForm creates a form and focuses its first field
func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{
		Fields: fields,
		Keys:   DefaultInputFormKeys,
	}
	f.SetFocus(0)
	return f
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update moves focus on navigation keys and otherwise feeds the focused input.
// The returned bool reports whether the message was consumed as navigation.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, f.Keys.Next):
			f.SetFocus((f.Focused + 1) % max(len(f.Fields), 1))
			return true, nil
		case key.Matches(k, f.Keys.Prev):
			f.SetFocus((f.Focused - 1 + len(f.Fields)) % max(len(f.Fields), 1))
			return true, nil
		}
	}

	if f.Focused < 0 || f.Focused >= len(f.Fields) {
		return false, nil
	}
	var cmd tea.Cmd
	f.Fields[f.Focused].Input, cmd = f.Fields[f.Focused].Input.Update(msg)
	return false, cmd
}

// SetFocus focuses the field at index and blurs the rest
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	for i := range f.Fields {
		f.Fields[i].Input.Blur()
	}
	f.Focused = index
	f.Fields[index].Input.Focus()
}

// Value returns the trimmed value of a field
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// SetValue sets the value of a field
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
}

// Missing returns an error naming the first empty required field and focuses it
func (f *InputForm) Missing() error {
	for i, field := range f.Fields {
		if field.Required && f.Value(i) == "" {
			f.SetFocus(i)
			return fmt.Errorf("%s is required", strings.ToLower(field.Label))
		}
	}
	return nil
}

// View renders every field, highlighting the focused one
func (f *InputForm) View() string {
	var b strings.Builder
	for i, field := range f.Fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		b.WriteString(styles.InputLabel.Render(label))
		b.WriteString("\n")
		if i == f.Focused {
			b.WriteString(styles.InputFocused.Render(field.Input.View()))
		} else {
			b.WriteString(styles.InputField.Render(field.Input.View()))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// RenderHelp renders the key hints for the form
func (f *InputForm) RenderHelp(submitText string) string {
	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", submitText))
	if len(f.Fields) > 1 {
		return RenderHelpLine(f.Keys.Next, submit, f.Keys.Cancel)
	}
	return RenderHelpLine(submit, f.Keys.Cancel)
}
