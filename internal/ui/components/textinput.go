package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyforge/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with studyforge styling. It is a
// single line input: Enter submits, it never inserts a newline.
type TextInput struct {
	Model    textinput.Model
	Disabled bool
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Input is ignored while disabled.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.Disabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.Disabled {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(view)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Blank reports whether the input holds only whitespace.
func (t TextInput) Blank() bool {
	return strings.TrimSpace(t.Model.Value()) == ""
}

// Clear empties the input.
func (t *TextInput) Clear() {
	t.Model.Reset()
}
