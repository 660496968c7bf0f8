package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DoneScreen is the wizard's final step, confirming the saved semi-space
// size before quitting back to the shell.
type DoneScreen struct {
	spaceSizeBytes int
	width          int
	height         int
}

func NewDoneScreen(spaceSizeBytes int) DoneScreen {
	return DoneScreen{spaceSizeBytes: spaceSizeBytes}
}

func (m DoneScreen) Init() tea.Cmd {
	return nil
}

func (m DoneScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter", "q", "ctrl+c"))):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DoneScreen) View() string {
	var b strings.Builder

	b.WriteString("  ✓ Heap Configured\n\n")
	b.WriteString(fmt.Sprintf("  Semi-space size set to %d bytes (%d bytes total heap).\n\n", m.spaceSizeBytes, m.spaceSizeBytes*2))

	b.WriteString("  Quick start:\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("    bakergc repl      Interactive heap console") + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("    bakergc stress    Fuzz the allocator and evacuator") + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("    bakergc inspect   Dump a known object graph") + "\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("  > Done"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("  enter finish • q quit"))

	return b.String()
}
