// Package components provides reusable TUI widgets for the optiview dashboard.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// Metric is one headline number shown in a card.
type Metric struct {
	Label string
	Value string
	Note  string
	Color lipgloss.Color // value color; empty uses the primary text color
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// Leading items absorb the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base, rem := totalWidth/n, totalWidth%n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < rem {
			widths[i]++
		}
	}
	return widths
}

func cardStyle(outerWidth int, border lipgloss.Color) lipgloss.Style {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Surface).
		Background(t.Surface).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)
}

// MetricCard renders a small card with label, value and an optional note.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	color := m.Color
	if color == "" {
		color = t.TextPrimary
	}

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	note := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := label.Render(m.Label) + "\n" + value.Render(m.Value)
	if m.Note != "" {
		content += "\n" + note.Render(m.Note)
	}
	return cardStyle(outerWidth, t.Border).Render(content)
}

// MetricCardRow renders metric cards side by side, summing to totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	return contentCard(title, body, outerWidth, theme.Active.Border)
}

// FocusedCard is a ContentCard with the accent border.
func FocusedCard(title, body string, outerWidth int) string {
	return contentCard(title, body, outerWidth, theme.Active.BorderAccent)
}

func contentCard(title, body string, outerWidth int, border lipgloss.Color) string {
	t := theme.Active
	content := ""
	if title != "" {
		content = lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Background(t.Surface).
			Bold(true).
			Render(title) + "\n"
	}
	return cardStyle(outerWidth, border).Render(content + body)
}

// CardRow joins rendered cards horizontally. Shorter cards are padded with
// surface-colored lines so the row has no unstyled gaps.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	height := 0
	for _, c := range cards {
		height = max(height, lipgloss.Height(c))
	}

	fill := lipgloss.NewStyle().Background(theme.Active.Surface)
	padded := make([]string, len(cards))
	for i, c := range cards {
		h := lipgloss.Height(c)
		if h == height {
			padded[i] = c
			continue
		}
		blank := fill.Render(strings.Repeat(" ", lipgloss.Width(c)))
		padded[i] = c + strings.Repeat("\n"+blank, height-h)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth is the usable text width inside a card of outerWidth.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}
