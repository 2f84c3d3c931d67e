package tui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/tui/components"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// maxSeatRows caps the seat utilization card.
const maxSeatRows = 5

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.summary

	critical := 0
	for _, an := range a.anomalies {
		if an.Severity == model.SeverityCritical {
			critical++
		}
	}

	metrics := []components.Metric{
		{Label: "Available savings", Value: cli.FormatImpact(s.MonthlyImpact), Note: cli.FormatCost(s.MonthlyImpact*12) + "/yr", Color: t.Green},
		{Label: "Open", Value: cli.FormatNumber(int64(s.OpenCount)), Note: fmt.Sprintf("of %d recommendations", s.Count)},
		{Label: "Critical", Value: cli.FormatNumber(int64(s.BySeverity[model.SeverityCritical])), Color: t.Red},
		{Label: "Anomalies", Value: cli.FormatNumber(int64(len(a.anomalies))), Note: fmt.Sprintf("%d critical", critical), Color: t.Orange},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(a.renderProviderCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderKindCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderSeatCard(cw))
		return b.String()
	}

	half := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{a.renderProviderCard(half[0]), a.renderKindCard(half[1])}))
	b.WriteString("\n")
	b.WriteString(a.renderSeatCard(cw))
	return b.String()
}

func (a App) renderProviderCard(outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	label := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	total := math.Abs(a.summary.MonthlyImpact)
	const nameW, impactW = 14, 11
	barW := max(innerW-nameW-impactW-7, 5)

	var lines []string
	for _, p := range a.summary.TopProviders {
		share := 0.0
		if total > 0 {
			share = math.Abs(p.MonthlyImpact) / total
		}
		lines = append(lines,
			label.Render(fmt.Sprintf("%-*s ", nameW, truncStr(p.Provider, nameW)))+
				components.ShareBar(share, barW)+
				value.Render(fmt.Sprintf(" %*s", impactW, cli.FormatImpact(p.MonthlyImpact))))
	}
	if len(lines) == 0 {
		lines = append(lines, label.Render("No actionable savings."))
	}
	return components.ContentCard("Top providers", strings.Join(lines, "\n"), outerW)
}

func (a App) renderKindCard(outerW int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	green := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	var lines []string
	for _, k := range []model.Kind{model.KindCloud, model.KindSaaS} {
		kt := a.summary.ByKind[k]
		lines = append(lines, label.Render(fmt.Sprintf("%-7s", k))+
			value.Render(fmt.Sprintf("%4d actionable  ", kt.Count))+
			green.Render(cli.FormatImpact(kt.MonthlyImpact)))
	}
	lines = append(lines, "")
	for _, st := range model.Statuses {
		lines = append(lines, label.Render(fmt.Sprintf("%-12s", st))+
			value.Render(fmt.Sprintf("%4d", a.summary.ByStatus[st])))
	}
	return components.ContentCard("By kind and status", strings.Join(lines, "\n"), outerW)
}

// renderSeatCard lists the least used SaaS plans.
func (a App) renderSeatCard(outerW int) string {
	innerW := components.CardInnerWidth(outerW)

	var saas []model.Recommendation
	for _, r := range a.data.All() {
		if r.Kind == model.KindSaaS && r.Seats > 0 {
			saas = append(saas, r)
		}
	}
	slices.SortStableFunc(saas, func(x, y model.Recommendation) int {
		if c := cmp.Compare(x.Utilization(), y.Utilization()); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	if len(saas) > maxSeatRows {
		saas = saas[:maxSeatRows]
	}

	const labelW = 24
	barW := max(innerW-labelW-20, 8)
	var lines []string
	for _, r := range saas {
		lines = append(lines, components.UtilizationBar(truncStr(r.Provider+" "+r.Resource, labelW), r.ActiveSeats, r.Seats, labelW, barW))
	}
	if len(lines) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Background(theme.Active.Surface).Render("No SaaS plans."))
	}
	return components.ContentCard("Lowest seat utilization", strings.Join(lines, "\n"), outerW)
}
