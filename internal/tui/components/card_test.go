package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/optiview/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3}, LayoutRow(10, 3))
	assert.Nil(t, LayoutRow(10, 0))

	sum := 0
	for _, w := range LayoutRow(97, 4) {
		sum += w
	}
	assert.Equal(t, 97, sum)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)
	shortLines := lipgloss.Height(short)
	tallLines := lipgloss.Height(tall)
	require.Less(t, shortLines, tallLines)

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	assert.Len(t, lines, tallLines)
	for i := shortLines; i < len(lines); i++ {
		assert.Contains(t, lines[i], "\x1b[", "padding line %d is unstyled", i)
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "A", 30)
	tall := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	want := lipgloss.Width(tall) + lipgloss.Width(short)
	for i, line := range lines {
		assert.Equal(t, want, lipgloss.Width(line), "line %d", i)
	}
}

func TestMetricCardRow(t *testing.T) {
	out := MetricCardRow([]Metric{
		{Label: "Savings", Value: "-$4.2K/mo"},
		{Label: "Open", Value: "12", Note: "of 38"},
	}, 60)

	assert.Contains(t, out, "Savings")
	assert.Contains(t, out, "of 38")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
	assert.Empty(t, MetricCardRow(nil, 60))
}
