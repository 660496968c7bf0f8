package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrel-lang/bakergc/internal/config"
	"github.com/kestrel-lang/bakergc/internal/replui"
)

type menuItem struct {
	title string
	desc  string
}

type menuKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Help, k.Quit}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Enter},
		{k.Help, k.Quit},
	}
}

var defaultMenuKeys = menuKeyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// MainMenu is the landing screen for a returning user (config.toml
// already exists). It routes to the heap console, the scenario builder,
// the invariant doctor, and the config viewer.
type MainMenu struct {
	items  []menuItem
	cursor int
	keys   menuKeyMap
	help   help.Model
	home   string
	status string
	width  int
	height int
}

func NewMainMenu(home string) MainMenu {
	items := []menuItem{
		{title: "Heap console", desc: "Interactive alloc/push/read/write/flip session"},
		{title: "Build a scenario", desc: "List, shared-structure, or cycle, then force a flip"},
		{title: "Invariant doctor", desc: "Check the Baker invariants against a fresh heap"},
		{title: "Configuration", desc: "View semi-space size, root depth, and trace settings"},
	}

	return MainMenu{
		items:  items,
		cursor: 0,
		keys:   defaultMenuKeys,
		help:   help.New(),
		home:   home,
		status: buildStatusLine(),
	}
}

func buildStatusLine() string {
	cfg, err := config.Load()
	if err != nil {
		return "config: (unavailable)"
	}
	return fmt.Sprintf("space=%d bytes  |  roots=%d  |  trace=%v", cfg.SpaceSizeBytes, cfg.MaxRootDepth, cfg.DebugTrace)
}

func (m MainMenu) Init() tea.Cmd {
	return nil
}

func (m MainMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.items) - 1
			}
		case key.Matches(msg, m.keys.Down):
			m.cursor++
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}
		case key.Matches(msg, m.keys.Enter):
			return m, m.selectItem()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MainMenu) selectItem() tea.Cmd {
	switch m.cursor {
	case 0:
		return pushConsole(m.home)
	case 1:
		return pushScreen(NewScenarioScreen(m.home))
	case 2:
		return pushScreen(NewDoctorScreen(m.home))
	case 3:
		return pushScreen(NewConfigScreen(m.home))
	}
	return nil
}

func pushConsole(home string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load()
		if err != nil {
			return PushScreenMsg{Screen: errScreen(err)}
		}
		model, err := replui.NewModel(replui.Config{
			SpaceSizeBytes: cfg.SpaceSizeBytes,
			MaxRootDepth:   cfg.MaxRootDepth,
			Home:           home,
			Seed:           true,
			DebugTrace:     cfg.DebugTrace,
		})
		if err != nil {
			return PushScreenMsg{Screen: errScreen(err)}
		}
		return PushScreenMsg{Screen: model}
	}
}

func (m MainMenu) View() string {
	var b strings.Builder

	showLogo := m.height >= 20
	showDesc := m.height >= 15

	if showLogo {
		b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Render(logo))
		b.WriteString("\n\n")
	}

	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render(m.status))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("  > " + item.title))
		} else {
			b.WriteString("    " + item.title)
		}
		b.WriteString("\n")
		if showDesc {
			b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("    " + item.desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// Cursor returns the current cursor position (for testing).
func (m MainMenu) Cursor() int { return m.cursor }

// ItemCount returns the number of menu items (for testing).
func (m MainMenu) ItemCount() int { return len(m.items) }
