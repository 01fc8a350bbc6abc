package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is a single-line field. Value and Reset come from the
// embedded model.
type TextInput struct {
	textinput.Model
}

// NewTextInput returns a focused field holding at most limit characters
// (no cap when limit is 0).
func NewTextInput(placeholder string, limit int) TextInput {
	m := textinput.New()
	m.Prompt = "› "
	m.Placeholder = placeholder
	m.CharLimit = max(limit, 0)
	m.Focus()
	return TextInput{Model: m}
}

func (t *TextInput) Init() tea.Cmd { return t.Focus() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// SetValue replaces the text and moves the cursor to its end.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.CursorEnd()
}

// View draws the field inside a box of width w.
func (t TextInput) View(w int) string {
	if w > 4 {
		t.SetWidth(w - 4)
	}
	return t.Model.View()
}
