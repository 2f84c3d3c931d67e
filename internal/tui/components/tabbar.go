package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of the shortcut letter in Name, -1 if absent
}

// Tab indices.
const (
	TabOverview = iota
	TabRecommendations
	TabAnomalies
	TabSettings
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Recommendations", Key: 'r', KeyPos: 0},
	{Name: "Anomalies", Key: 'a', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

const tabSeparator = " "

// renderTab draws one tab. The returned string's width is TabVisualWidth.
func renderTab(tab Tab, active bool) string {
	t := theme.Active
	bg := t.Surface
	if active {
		bg = t.SurfaceHover
	}
	name := lipgloss.NewStyle().Foreground(t.TextMuted).Background(bg)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(bg).Bold(true)
	bracket := lipgloss.NewStyle().Foreground(t.TextDim).Background(bg)
	pad := lipgloss.NewStyle().Background(bg).Render(" ")

	if active {
		return pad + lipgloss.NewStyle().Foreground(t.Accent).Background(bg).Bold(true).Render(tab.Name) + pad
	}
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		return pad +
			name.Render(tab.Name[:tab.KeyPos]) +
			key.Render(tab.Name[tab.KeyPos:tab.KeyPos+1]) +
			name.Render(tab.Name[tab.KeyPos+1:]) + pad
	}
	return pad + name.Render(tab.Name) +
		bracket.Render("[") + key.Render(string(tab.Key)) + bracket.Render("]") + pad
}

// TabVisualWidth is the rendered width of a tab, used for mouse hit testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tabs on one line, padded to width.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(tabSeparator)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	bar := strings.Join(parts, sep)
	if gap := width - lipgloss.Width(bar); gap > 0 {
		bar += lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))
	}
	return bar
}

// TabIdxByKey returns the tab index bound to key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
