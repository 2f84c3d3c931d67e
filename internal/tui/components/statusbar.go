package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Hints   string // key hints for the active tab
	Message string // transient message, e.g. "preferences saved"
	IsError bool
	Right   string // dataset description
}

// RenderStatusBar renders the bottom status bar at exactly width columns.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active
	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	left := " [?]help  [q]uit"
	if info.Hints != "" {
		left += "  " + info.Hints
	}
	leftR := base.Render(left)

	if info.Message != "" {
		color := t.Green
		if info.IsError {
			color = t.Red
		}
		leftR += base.Render("  ") + lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(info.Message)
	}

	right := base.Render(info.Right + " ")
	gap := width - lipgloss.Width(leftR) - lipgloss.Width(right)
	if gap < 0 {
		// Drop the right side before truncating hints.
		right, gap = "", max(width-lipgloss.Width(leftR), 0)
	}
	bar := leftR + base.Render(strings.Repeat(" ", gap)) + right
	return lipgloss.NewStyle().MaxWidth(width).Render(bar)
}
