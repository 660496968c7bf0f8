package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrel-lang/bakergc/internal/config"
)

type spacePreset struct {
	label string
	bytes int
}

var spacePresets = []spacePreset{
	{"64 KiB  (tight — forces frequent flips)", 64 * 1024},
	{"1 MiB", 1024 * 1024},
	{"4 MiB   (default)", 4 * 1024 * 1024},
	{"16 MiB", 16 * 1024 * 1024},
}

type spaceSizeKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

func (k spaceSizeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Quit}
}

func (k spaceSizeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// SpaceSizeScreen is the wizard's second step: pick a semi-space size
// preset, save it to config.toml, then continue to DoneScreen.
type SpaceSizeScreen struct {
	keys   spaceSizeKeyMap
	cursor int
	err    error
	width  int
	height int
}

func NewSpaceSizeScreen() SpaceSizeScreen {
	return SpaceSizeScreen{
		keys: spaceSizeKeyMap{
			Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
			Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		cursor: 2, // default to the 4 MiB preset
	}
}

func (m SpaceSizeScreen) Init() tea.Cmd {
	return nil
}

func (m SpaceSizeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(spacePresets) - 1
			}
		case key.Matches(msg, m.keys.Down):
			m.cursor++
			if m.cursor >= len(spacePresets) {
				m.cursor = 0
			}
		case key.Matches(msg, m.keys.Enter):
			cfg, err := config.Load()
			if err != nil {
				m.err = err
				return m, nil
			}
			cfg.SpaceSizeBytes = spacePresets[m.cursor].bytes
			if err := config.Save(cfg); err != nil {
				m.err = err
				return m, nil
			}
			return m, pushScreen(NewDoneScreen(spacePresets[m.cursor].bytes))
		case key.Matches(msg, m.keys.Back):
			return m, popScreen()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SpaceSizeScreen) View() string {
	var b strings.Builder

	b.WriteString("  Semi-space size\n\n")
	b.WriteString("  Each of the two semi-spaces will be this big; total heap is double it.\n\n")

	for i, p := range spacePresets {
		if i == m.cursor {
			b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("  > " + p.label))
		} else {
			b.WriteString("    " + p.label)
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render(fmt.Sprintf("  error: %v", m.err)))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("  ↑/↓ choose • enter save • esc back • q quit"))

	return b.String()
}
