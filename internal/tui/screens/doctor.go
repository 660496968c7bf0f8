package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrel-lang/bakergc/internal/config"
	"github.com/kestrel-lang/bakergc/internal/gc"
	"github.com/kestrel-lang/bakergc/internal/mutator"
)

type checkResult struct {
	name   string
	status string // "ok", "warning", "error"
	detail string
}

type doctorResultMsg struct {
	checks []checkResult
}

type doctorKeyMap struct {
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func (k doctorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Back, k.Quit}
}

func (k doctorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Back, k.Quit}}
}

// DoctorScreen builds a scratch heap, drives a cycle scenario through
// an allocation, a read-barrier touch, and a forced flip, then reports
// which collector invariants still hold: Baker pointer ordering, a
// clean black region, grey/white forwardability, and fully resolved
// roots.
type DoctorScreen struct {
	keys    doctorKeyMap
	spinner spinner.Model
	loading bool
	checks  []checkResult
	home    string
	width   int
	height  int
}

func NewDoctorScreen(home string) DoctorScreen {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return DoctorScreen{
		keys: doctorKeyMap{
			Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
			Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
			Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		spinner: s,
		loading: true,
		home:    home,
	}
}

func (m DoctorScreen) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runChecks())
}

func (m DoctorScreen) runChecks() tea.Cmd {
	return func() tea.Msg {
		var checks []checkResult

		cfg, err := config.Load()
		if err != nil {
			checks = append(checks, checkResult{name: "Config", status: "error", detail: err.Error()})
			return doctorResultMsg{checks: checks}
		}
		checks = append(checks, checkResult{name: "Config", status: "ok", detail: fmt.Sprintf("space=%d roots=%d", cfg.SpaceSizeBytes, cfg.MaxRootDepth)})

		heap, err := config.NewHeap(cfg, nil)
		if err != nil {
			checks = append(checks, checkResult{name: "Heap", status: "error", detail: err.Error()})
			return doctorResultMsg{checks: checks}
		}
		defer heap.Close()

		a, err := mutator.BuildCycle(heap)
		if err != nil {
			checks = append(checks, checkResult{name: "Cycle alloc", status: "error", detail: err.Error()})
			return doctorResultMsg{checks: checks}
		}
		root := new(gc.Ref)
		*root = a
		if err := heap.PushRoot(root); err != nil {
			checks = append(checks, checkResult{name: "Push root", status: "error", detail: err.Error()})
			return doctorResultMsg{checks: checks}
		}
		checks = append(checks, checkResult{name: "Alloc", status: "ok", detail: "cycle built and rooted"})

		if _, err := heap.ReadBarrier(a, 0); err != nil {
			checks = append(checks, checkResult{name: "Read barrier", status: "error", detail: err.Error()})
		} else {
			checks = append(checks, checkResult{name: "Read barrier", status: "ok", detail: "field 0 resolved"})
		}

		if err := heap.ForceFlip(); err != nil {
			checks = append(checks, checkResult{name: "Flip", status: "error", detail: err.Error()})
			return doctorResultMsg{checks: checks}
		}
		checks = append(checks, checkResult{name: "Flip", status: "ok", detail: "collection cycle completed"})

		report := heap.CheckInvariants()
		checks = append(checks, invariantCheck("Pointer order", report.BakerPointerOrder))
		checks = append(checks, invariantCheck("Black region clean", report.BlackRegionClean))
		checks = append(checks, invariantCheck("Grey/white forwardable", report.GreyWhiteForwardable))
		checks = append(checks, invariantCheck("Roots resolved", report.RootsResolved))

		return doctorResultMsg{checks: checks}
	}
}

func invariantCheck(name string, ok bool) checkResult {
	if ok {
		return checkResult{name: name, status: "ok", detail: "holds"}
	}
	return checkResult{name: name, status: "error", detail: "violated"}
}

func (m DoctorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case doctorResultMsg:
		m.loading = false
		m.checks = msg.checks
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.runChecks())
		case key.Matches(msg, m.keys.Back):
			return m, popScreen()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DoctorScreen) View() string {
	var b strings.Builder

	b.WriteString("  Heap Invariant Check\n\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("  Running checks...  %s\n", m.spinner.View()))
		return b.String()
	}

	var warnings, errors int
	for _, c := range m.checks {
		var symbol string
		switch c.status {
		case "ok":
			symbol = lipgloss.NewStyle().Foreground(colorSuccess).Render("✓")
		case "warning":
			symbol = lipgloss.NewStyle().Foreground(colorWarning).Render("⚠")
			warnings++
		case "error":
			symbol = lipgloss.NewStyle().Foreground(colorError).Render("✗")
			errors++
		}
		b.WriteString(fmt.Sprintf("  %s %-24s %s\n", symbol, c.name, c.detail))
	}

	b.WriteString("\n")

	if errors > 0 {
		b.WriteString(fmt.Sprintf("  Problems found (%d errors, %d warnings).\n", errors, warnings))
	} else if warnings > 0 {
		b.WriteString(fmt.Sprintf("  Everything looks good (%d warnings).\n", warnings))
	} else {
		b.WriteString("  Every invariant holds.\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorDim).Render("  r refresh • esc back • q quit"))

	return b.String()
}
