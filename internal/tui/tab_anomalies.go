package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/trend"
	"github.com/theirongolddev/optiview/internal/tui/components"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

type anomState struct {
	cursor int
}

func (s *anomState) move(delta, n int) {
	s.cursor = min(max(s.cursor+delta, 0), max(n-1, 0))
}

func (a App) updateAnomKey(key string) (tea.Model, tea.Cmd, bool) {
	n := len(a.anomalies)
	switch key {
	case "j", "down":
		a.anoms.move(1, n)
	case "k", "up":
		a.anoms.move(-1, n)
	case "g":
		a.anoms.move(-n, n)
	case "G":
		a.anoms.move(n, n)
	default:
		return a, nil, false
	}
	return a, nil, true
}

// derive runs the trend builder for one anomaly with its hand-set scalars.
func (a App) derive(an model.Anomaly) trend.DerivedSeries {
	return a.builder.Build(an.Series, trend.Options{
		Baseline:         an.Baseline,
		MonthlyImpact:    an.MonthlyImpact,
		WorstCaseMonthly: an.WorstCaseMonthly,
	})
}

func actualValues(ds trend.DerivedSeries) []float64 {
	vals := make([]float64, 0, len(ds.Window))
	for _, p := range ds.Window {
		if p.DailyCost != nil {
			vals = append(vals, *p.DailyCost)
		}
	}
	return vals
}

func (a App) renderAnomaliesTab(cw, h int) string {
	if len(a.anomalies) == 0 {
		return components.ContentCard("Anomalies", "No anomalies.", cw)
	}
	if a.isCompactLayout() {
		listH := min(len(a.anomalies)+3, h/3)
		return a.renderAnomalyList(cw) + "\n" + a.renderAnomalyDetail(cw, max(h-listH, minContentHeight))
	}
	listW := cw * 38 / 100
	return components.CardRow([]string{
		a.renderAnomalyList(listW),
		a.renderAnomalyDetail(cw-listW, h),
	})
}

func (a App) renderAnomalyList(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	const sparkW = 8

	var b strings.Builder
	for i, an := range a.anomalies {
		bg := t.Surface
		if i == a.anoms.cursor {
			bg = t.SurfaceHover
		}
		sev := lipgloss.NewStyle().Foreground(t.ForSeverity(an.Severity)).Background(bg).Bold(true)
		base := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)

		vals := actualValues(a.derive(an))
		spark := components.Sparkline(vals, t.ForSeverity(an.Severity))
		nameW := max(innerW-5-sparkW-1, 6)

		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sev.Render(fmt.Sprintf("%-4s ", severityTag(an.Severity))))
		b.WriteString(base.Render(fmt.Sprintf("%-*s ", nameW, truncStr(an.Service, nameW))))
		b.WriteString(spark)
	}
	return components.FocusedCard(fmt.Sprintf("Anomalies (%d)", len(a.anomalies)), b.String(), outerW)
}

func (a App) renderAnomalyDetail(outerW, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	an := a.anomalies[a.anoms.cursor]
	ds := a.derive(an)
	rows := trend.Axis(ds)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	field := func(name, v string) string {
		return label.Render(fmt.Sprintf("%-12s", name)) + value.Render(v)
	}

	var lines []string
	lines = append(lines,
		title.Render(truncStr(an.Service+" · "+an.Provider, innerW)),
		label.Render(truncStr(an.Summary, innerW)),
		"",
		field("Detected", an.DetectedDate)+label.Render("   ")+field("Type", an.Classification),
		field("Baseline", cli.FormatCost(ds.BaselineValue)+"/day")+label.Render("   ")+
			field("Impact", impactOrDash(an.MonthlyImpact)),
		field("Worst case", monthlyOrDash(an.WorstCaseMonthly)),
	)
	if !trend.RiskConsistent(ds) {
		lines = append(lines, warn.Render("worst case falls below the projected trend"))
	}
	lines = append(lines, "")

	linked := a.data.RecommendationsFor(an.ID)
	chartH := max(h-len(lines)-len(linked)-5, 6)
	lines = append(lines, components.TrendChart(rows, innerW, chartH))

	if len(linked) > 0 {
		lines = append(lines, "", label.Render("Linked recommendations"))
		for _, r := range linked {
			impact := cli.FormatImpact(r.MonthlyImpact)
			lines = append(lines, value.Render(fmt.Sprintf("  %-*s %s",
				max(innerW-len(impact)-3, 8), truncStr(r.Title, innerW-len(impact)-3), impact)))
		}
	}

	return components.ContentCard("Cost trend", strings.Join(lines, "\n"), outerW)
}

func impactOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return cli.FormatImpact(*v)
}

func monthlyOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return cli.FormatCost(*v) + "/mo"
}
