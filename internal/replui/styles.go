package replui

import "github.com/charmbracelet/lipgloss"

// Local style set, mirroring internal/tui/styles.go. Kept separate
// rather than imported so replui (embeddable as a screen inside
// internal/tui's menu) never has to import internal/tui itself.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#2F71F2", Dark: "#4A90FF"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	colorError   = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#FF4672"}

	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
)
