package replui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrel-lang/bakergc/internal/config"
	"github.com/kestrel-lang/bakergc/internal/gc"
)

// Config holds the settings a REPL session is started with.
type Config struct {
	SpaceSizeBytes int
	MaxRootDepth   int
	Home           string
	Seed           bool
	DebugTrace     bool
}

// Model is the top-level bubbletea model for the heap console.
type Model struct {
	input   InputModel
	logview LogViewModel
	sidebar SidebarModel
	history *History
	console *Console

	heap   *gc.Heap
	cfg    Config
	err    error
	width  int
	height int
}

// NewModel creates a REPL model over a freshly constructed heap.
func NewModel(cfg Config) (Model, error) {
	heap, err := config.NewHeap(&config.Config{
		SpaceSizeBytes: cfg.SpaceSizeBytes,
		MaxRootDepth:   cfg.MaxRootDepth,
		DebugTrace:     cfg.DebugTrace,
	}, nil)
	if err != nil {
		return Model{}, fmt.Errorf("creating heap: %w", err)
	}
	history := NewHistory(cfg.Home)
	m := Model{
		input:   NewInput(history),
		logview: NewLogView(),
		sidebar: NewSidebar(),
		history: history,
		console: NewConsole(heap),
		heap:    heap,
		cfg:     cfg,
	}
	return m, nil
}

// Init seeds the log view with a banner and, if configured, a starter
// list structure.
func (m Model) Init() tea.Cmd {
	m.logview.AppendEntry(LogEntry{Type: LogInfo, Text: "bakergc console — type \"help\" for commands"})
	if m.cfg.Seed {
		lines, err := m.console.BuildSeed()
		if err != nil {
			m.logview.AppendEntry(LogEntry{Type: LogError, Text: err.Error()})
		}
		for _, l := range lines {
			m.logview.AppendEntry(LogEntry{Type: LogResult, Text: l})
		}
	}
	m.refreshSidebar()
	return textinput.Blink
}

func (m *Model) refreshSidebar() {
	toBase, fromBase, scan, next, limit := m.heap.PointerState()
	m.sidebar.SetHeapInfo(HeapInfo{
		ToBase:    toBase,
		FromBase:  fromBase,
		Scan:      scan,
		Next:      next,
		Limit:     limit,
		SpaceSize: m.heap.SpaceSize(),
		Roots:     m.heap.RootDepth(),
		Stats:     m.heap.Stats(),
	})
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit
		}

	case SubmitMsg:
		m.logview.AppendEntry(LogEntry{Type: LogCommand, Text: msg.Line})
		lines, quit := m.console.Run(msg.Line)
		for _, l := range lines {
			m.logview.AppendEntry(LogEntry{Type: LogResult, Text: l})
		}
		m.refreshSidebar()
		if quit {
			return m, tea.Quit
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logview, cmd = m.logview.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) layout() {
	mainWidth := m.width
	if m.width >= 60 {
		mainWidth = m.width - m.sidebar.Width()
	}
	m.input.SetWidth(mainWidth)
	m.logview.SetSize(mainWidth, m.contentHeight())
	m.sidebar.SetHeight(m.height)
}

func (m Model) contentHeight() int {
	h := m.height - m.input.Height() - 1
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the console layout with sidebar.
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  %s\n\n  Press Ctrl+C to exit.\n", styleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	mainSections := []string{
		m.logview.View(),
		m.input.View(),
	}
	mainArea := lipgloss.JoinVertical(lipgloss.Left, mainSections...)

	if m.width >= 60 {
		return lipgloss.JoinHorizontal(lipgloss.Top, mainArea, m.sidebar.View())
	}
	return mainArea
}
