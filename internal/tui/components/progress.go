package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// ShareBar renders a filled bar with a percentage, used for provider shares.
func ShareBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := min(int(pct*float64(width)), width)

	barColor := t.Cyan
	switch {
	case pct >= 0.5:
		barColor = t.AccentBright
	case pct >= 0.25:
		barColor = t.Accent
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	b.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(" "))
	b.WriteString(pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100)))
	return b.String()
}

// UtilizationColor grades seat utilization: idle seats are the problem, so
// low values are red.
func UtilizationColor(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct < 0.5:
		return t.Red
	case pct < 0.7:
		return t.Orange
	case pct < 0.9:
		return t.Yellow
	default:
		return t.Green
	}
}

// UtilizationBar renders "label [bar] 42% 21/50 seats" for a SaaS plan.
func UtilizationBar(label string, active, seats, labelW, barWidth int) string {
	t := theme.Active
	pct := 0.0
	if seats > 0 {
		pct = clamp01(float64(active) / float64(seats))
	}
	color := UtilizationColor(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space + bar.ViewAs(pct) + space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100)) +
		space + dimStyle.Render(fmt.Sprintf("%d/%d seats", active, seats))
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
