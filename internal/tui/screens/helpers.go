package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PushScreenMsg tells the app to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen tea.Model
}

// PopScreenMsg tells the app to pop the current screen.
type PopScreenMsg struct{}

func pushScreen(s tea.Model) tea.Cmd {
	return func() tea.Msg {
		return PushScreenMsg{Screen: s}
	}
}

func popScreen() tea.Cmd {
	return func() tea.Msg {
		return PopScreenMsg{}
	}
}

// errorScreen is a minimal dead-end screen for surfacing a setup error
// (e.g. a bad config file) without crashing the whole TUI.
type errorScreen struct {
	err error
}

func errScreen(err error) errorScreen {
	return errorScreen{err: err}
}

func (m errorScreen) Init() tea.Cmd { return nil }

func (m errorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m, popScreen()
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m errorScreen) View() string {
	return fmt.Sprintf("\n  %s\n\n  esc back • q quit\n", lipgloss.NewStyle().Foreground(colorError).Render(fmt.Sprintf("Error: %v", m.err)))
}
