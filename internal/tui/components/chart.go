package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/trend"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline scaled between the series min and max.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e9:
		if v == math.Trunc(v/1e9)*1e9 {
			return fmt.Sprintf("%.0fB", v/1e9)
		}
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// Trend chart glyphs.
const (
	glyphBar      = "█"
	glyphBaseline = "─"
	glyphForecast = "•"
	glyphWorst    = "▲"
	glyphBoth     = "◆"
)

// TrendChart draws a window of daily actuals as bars colored against the
// baseline, followed by the forward slots with forecast and worst-case
// markers. The dashed baseline runs across the whole axis.
func TrendChart(rows []trend.AxisRow, width, height int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	maxVal := 0.0
	for _, r := range rows {
		maxVal = max(maxVal, r.Baseline)
		for _, v := range []*float64{r.Actual, r.Forecast(), r.WorstCase} {
			if v != nil {
				maxVal = max(maxVal, *v)
			}
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	step := chartTickStep(maxVal)
	ceiling := math.Ceil(maxVal/step) * step

	chartH := max(height-3, 3)
	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	n := len(rows)
	chartW := max(width-yLabelW-1, 2*n-1)
	colW := min(max((chartW-(n-1))/n, 1), 4)
	axisLen := n*colW + (n - 1)

	level := func(v float64) int {
		if v <= 0 {
			return 0
		}
		return min(max(int(math.Round(v/ceiling*float64(chartH))), 0), chartH)
	}
	baseLvl := level(rows[0].Baseline)

	bg := lipgloss.NewStyle().Background(t.Surface)
	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	paint := func(glyph string, c lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(c).Background(t.Surface).Render(glyph)
	}
	marker := func(glyph string, c lipgloss.Color) string {
		return paint(glyph, c) + bg.Render(strings.Repeat(" ", colW-1))
	}

	tickLabels := map[int]string{
		chartH:  formatChartLabel(ceiling),
		baseLvl: formatChartLabel(rows[0].Baseline),
	}

	var b strings.Builder
	for lvl := chartH; lvl >= 1; lvl-- {
		b.WriteString(axis.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[lvl])))
		b.WriteString(axis.Render("│"))
		for i, r := range rows {
			if i > 0 {
				b.WriteString(bg.Render(" "))
			}
			switch {
			case r.Actual != nil && level(*r.Actual) >= lvl:
				b.WriteString(paint(strings.Repeat(glyphBar, colW), barColor(r)))
			case r.Actual == nil && forwardGlyph(r, lvl, level) != "":
				g := forwardGlyph(r, lvl, level)
				c := t.Accent
				if g != glyphForecast {
					c = t.Orange
				}
				b.WriteString(marker(g, c))
			case lvl == baseLvl:
				b.WriteString(axis.Render(strings.Repeat(glyphBaseline, colW)))
			default:
				b.WriteString(bg.Render(strings.Repeat(" ", colW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axis.Render("└" + strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	first, last := shortDate(rows[0].Date), shortDate(rows[n-1].Date)
	labels := first
	if n > 1 {
		if gap := axisLen - len(first) - len(last); gap > 0 {
			labels += strings.Repeat(" ", gap) + last
		}
	}
	b.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axis.Render(labels))
	b.WriteString("\n")

	legend := paint(glyphBar, t.Above()) + axis.Render(" above  ") +
		paint(glyphBar, t.Below()) + axis.Render(" below  ") +
		paint(glyphBar, t.Orange) + axis.Render(" anomaly  ") +
		axis.Render(glyphBaseline+" baseline  ") +
		paint(glyphForecast, t.Accent) + axis.Render(" forecast  ") +
		paint(glyphWorst, t.Orange) + axis.Render(" worst case")
	b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(legend))

	return b.String()
}

// barColor picks the color of an actual bar. Flagged anomalies win over the
// baseline classification.
func barColor(r trend.AxisRow) lipgloss.Color {
	t := theme.Active
	if r.Anomaly {
		return t.Orange
	}
	return t.ForStyle(r.Style)
}

// forwardGlyph returns the marker drawn at lvl for a forward slot, or "".
func forwardGlyph(r trend.AxisRow, lvl int, level func(float64) int) string {
	onForecast := r.Forecast() != nil && level(*r.Forecast()) == lvl
	onWorst := r.WorstCase != nil && level(*r.WorstCase) == lvl
	switch {
	case onForecast && onWorst:
		return glyphBoth
	case onWorst:
		return glyphWorst
	case onForecast:
		return glyphForecast
	}
	return ""
}

func shortDate(d string) string {
	if len(d) == len("2006-01-02") {
		return d[5:]
	}
	return d
}
