package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const logo = "bakergc"

type welcomeKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

func (k welcomeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Quit}
}

func (k welcomeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Enter, k.Quit}}
}

// WelcomeScreen is the first screen a first-time user sees: no
// config.toml yet means the heap has never been sized, so this walks
// them through picking a semi-space size; the wizard ends on DoneScreen,
// which quits back to the shell.
type WelcomeScreen struct {
	keys   welcomeKeyMap
	width  int
	height int
}

func NewWelcomeScreen() WelcomeScreen {
	return WelcomeScreen{
		keys: welcomeKeyMap{
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "continue"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

func (m WelcomeScreen) Init() tea.Cmd {
	return nil
}

func (m WelcomeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m, pushScreen(NewSpaceSizeScreen())
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m WelcomeScreen) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(logo))
	b.WriteString("\n\n")

	b.WriteString("  Welcome! Let's size your heap.\n\n")
	b.WriteString("  This wizard will:\n")
	b.WriteString("    1. Pick a semi-space size\n")
	b.WriteString("    2. Save it to config.toml\n")
	b.WriteString("    3. Show the quick-start commands\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("  > Get Started"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("  enter continue • q quit"))

	return b.String()
}
