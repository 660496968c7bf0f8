package replui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// LogEntryType identifies the kind of log entry for styling.
type LogEntryType string

const (
	LogCommand LogEntryType = "command"
	LogEvent   LogEntryType = "event"   // a GC-driven event: alloc, flip, forward
	LogError   LogEntryType = "error"
	LogResult  LogEntryType = "result"
	LogInfo    LogEntryType = "info"
)

// LogEntry represents a single styled entry in the log view.
type LogEntry struct {
	Type LogEntryType
	Text string
}

// LogViewModel is a scrollable log output component showing the
// history of mutator commands and the collector events they triggered.
type LogViewModel struct {
	entries  []LogEntry
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewLogView creates an empty log view.
func NewLogView() LogViewModel {
	return LogViewModel{entries: []LogEntry{}}
}

// SetSize updates the viewport dimensions.
func (m *LogViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.viewport.YPosition = 0
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.renderContent()
}

// AppendEntry adds a log entry and auto-scrolls to bottom.
func (m *LogViewModel) AppendEntry(entry LogEntry) {
	m.entries = append(m.entries, entry)
	m.renderContent()
	m.viewport.GotoBottom()
}

func (m *LogViewModel) renderContent() {
	if !m.ready {
		return
	}
	var lines []string
	for _, e := range m.entries {
		lines = append(lines, m.styleEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *LogViewModel) styleEntry(e LogEntry) string {
	switch e.Type {
	case LogCommand:
		return styleDim.Render("> " + e.Text)
	case LogEvent:
		return styleDim.Render(e.Text)
	case LogError:
		return styleError.Render(e.Text)
	case LogResult:
		return styleSuccess.Render(e.Text)
	case LogInfo:
		return styleDim.Render(e.Text)
	default:
		return e.Text
	}
}

// Update handles viewport-specific messages (scroll, mouse).
func (m LogViewModel) Update(msg tea.Msg) (LogViewModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewport.
func (m LogViewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewport.View()
}
