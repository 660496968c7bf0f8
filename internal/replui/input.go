package replui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SubmitMsg is emitted when the user presses enter on a non-empty line.
type SubmitMsg struct {
	Line string
}

// InputModel is a single-line command prompt with history navigation,
// the REPL's analogue of a shell's line editor.
type InputModel struct {
	ti      textinput.Model
	history *History
}

// NewInput creates an input box bound to the given history.
func NewInput(history *History) InputModel {
	ti := textinput.New()
	ti.Placeholder = "alloc k:tag [f0 f1 ...] | push <ref> | pop | read <ref> <i> | write <ref> <i> <ref> | flip | stats | help | quit"
	ti.Focus()
	ti.CharLimit = 256
	ti.Prompt = "gc> "
	return InputModel{ti: ti, history: history}
}

// SetWidth resizes the input box.
func (m *InputModel) SetWidth(w int) {
	m.ti.Width = w - len(m.ti.Prompt) - 1
}

// Height returns the number of terminal rows the input occupies.
func (m InputModel) Height() int { return 1 }

// Reset clears the current line.
func (m *InputModel) Reset() {
	m.ti.Reset()
	m.history.ResetNavigation()
}

// Update handles key events, including history navigation and submit.
func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			line := m.ti.Value()
			if line == "" {
				return m, nil
			}
			m.history.Add(line)
			m.Reset()
			return m, func() tea.Msg { return SubmitMsg{Line: line} }
		case "up":
			if v, ok := m.history.Up(m.ti.Value()); ok {
				m.ti.SetValue(v)
				m.ti.CursorEnd()
			}
			return m, nil
		case "down":
			if v, ok := m.history.Down(m.ti.Value()); ok {
				m.ti.SetValue(v)
				m.ti.CursorEnd()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// View renders the input line.
func (m InputModel) View() string {
	return m.ti.View()
}
