package replui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrel-lang/bakergc/internal/gc"
)

// HeapInfo holds the display data the sidebar renders each frame: the
// five Baker pointers plus the running counters.
type HeapInfo struct {
	ToBase, FromBase   uintptr
	Scan, Next, Limit  uintptr
	SpaceSize          int
	Roots              int
	Stats              gc.Stats
}

// replKeyMap defines keybindings displayed via the help component.
type replKeyMap struct {
	Submit  key.Binding
	History key.Binding
	Quit    key.Binding
}

func (k replKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.History, k.Quit}
}

func (k replKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultREPLKeyMap = replKeyMap{
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	History: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "history")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// SidebarModel displays the collector's current Baker-pointer state and
// keybinding help.
type SidebarModel struct {
	info   *HeapInfo
	help   help.Model
	keys   replKeyMap
	width  int
	height int
}

// NewSidebar creates a new sidebar with a fixed width.
func NewSidebar() SidebarModel {
	h := help.New()
	h.ShowAll = true
	h.ShortSeparator = ""
	return SidebarModel{
		width: 34,
		help:  h,
		keys:  defaultREPLKeyMap,
	}
}

// SetHeapInfo updates the Baker-pointer display data.
func (m *SidebarModel) SetHeapInfo(info HeapInfo) {
	m.info = &info
}

// SetHeight updates the sidebar height.
func (m *SidebarModel) SetHeight(h int) {
	m.height = h
}

// Width returns the fixed sidebar width.
func (m SidebarModel) Width() int { return m.width }

// Update is a no-op; the sidebar doesn't handle messages directly.
func (m SidebarModel) Update(msg tea.Msg) (SidebarModel, tea.Cmd) {
	return m, nil
}

// View renders the sidebar with heap state and keybinding help.
func (m SidebarModel) View() string {
	sections := []string{
		m.renderHeapInfo(),
		"",
		m.renderHelp(),
	}

	content := strings.Join(sections, "\n")

	style := lipgloss.NewStyle().
		Width(m.width - 2).
		Height(m.height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(colorDim).
		PaddingLeft(1).
		PaddingRight(1)

	return style.Render(content)
}

func (m SidebarModel) renderHeapInfo() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle := lipgloss.NewStyle().Foreground(colorDim)
	valueStyle := lipgloss.NewStyle()

	lines := []string{titleStyle.Render("Heap")}

	if m.info == nil {
		lines = append(lines, labelStyle.Render("Not started..."))
		return strings.Join(lines, "\n")
	}

	info := m.info
	lines = append(lines,
		labelStyle.Render("to:    ")+valueStyle.Render(fmt.Sprintf("0x%x", info.ToBase)),
		labelStyle.Render("from:  ")+valueStyle.Render(fmt.Sprintf("0x%x", info.FromBase)),
		labelStyle.Render("scan:  ")+valueStyle.Render(fmt.Sprintf("+%d", info.Scan-info.ToBase)),
		labelStyle.Render("next:  ")+valueStyle.Render(fmt.Sprintf("+%d", info.Next-info.ToBase)),
		labelStyle.Render("limit: ")+valueStyle.Render(fmt.Sprintf("+%d", info.Limit-info.ToBase)),
		labelStyle.Render("size:  ")+valueStyle.Render(fmt.Sprintf("%d", info.SpaceSize)),
		"",
		labelStyle.Render("roots: ")+valueStyle.Render(fmt.Sprintf("%d", info.Roots)),
		labelStyle.Render("allocs:")+valueStyle.Render(fmt.Sprintf("%d", info.Stats.TotalAllocatedObjects)),
		labelStyle.Render("reads: ")+valueStyle.Render(fmt.Sprintf("%d", info.Stats.TotalReads)),
		labelStyle.Render("writes:")+valueStyle.Render(fmt.Sprintf("%d", info.Stats.TotalWrites)),
	)

	return strings.Join(lines, "\n")
}

func (m SidebarModel) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	m.help.Width = m.width - 4

	lines := []string{
		titleStyle.Render("Keys"),
		"",
		m.help.View(m.keys),
	}

	return strings.Join(lines, "\n")
}
