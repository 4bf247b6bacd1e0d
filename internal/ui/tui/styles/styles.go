package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Text styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#DEDEDE"))

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#777777"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F87")).
		Bold(true)

	Selected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3C3C3C"))

	Current = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#43BF6D")).
		Bold(true)
)

// stateColours maps playback state names to their badge colour
var stateColours = map[string]lipgloss.Color{
	"idle":     lipgloss.Color("#777777"),
	"loading":  lipgloss.Color("#F5A623"),
	"playing":  lipgloss.Color("#43BF6D"),
	"paused":   lipgloss.Color("#7D56F4"),
	"stalled":  lipgloss.Color("#F5A623"),
	"complete": lipgloss.Color("#4A90E2"),
	"error":    lipgloss.Color("#FF5F87"),
}

// StateBadge renders a playback state name as a coloured badge
func StateBadge(state string) string {
	colour, ok := stateColours[state]
	if !ok {
		colour = lipgloss.Color("#777777")
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1A1A1A")).
		Background(colour).
		Padding(0, 1).
		Render(state)
}

// Layout helpers
func Header(width int, title string) string {
	return Title.
		Width(width).
		Align(lipgloss.Center).
		Render(title)
}

func ContentBox(width int, content string, padding int) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(padding).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Render(content)
}

func CenteredText(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}
