package components

import (
	"strings"

	"github.com/theirongolddev/custform/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key help on the left,
// form validity and the last action note on the right.
func RenderStatusBar(width int, help string, valid bool, note string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	state := lipgloss.NewStyle().Foreground(t.Invalid).Bold(true).Render("INVALID")
	if valid {
		state = lipgloss.NewStyle().Foreground(t.Valid).Bold(true).Render("VALID")
	}

	left := " " + help
	right := state + " "
	if note != "" {
		right = note + "  " + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
