package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/recommend"
	"github.com/theirongolddev/optiview/internal/tui/components"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// recsState tracks the recommendations tab. prefs is the persisted part.
type recsState struct {
	prefs   model.ViewPrefs
	sortKey recommend.SortKey
	list    []model.Recommendation // filtered and sorted

	cursor       int
	detailScroll int

	searching bool
	search    textinput.Model
}

// Severity filter cycles from most urgent down.
var severityCycle = []model.Severity{
	model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow,
}

var kindCycle = []model.Kind{"", model.KindCloud, model.KindSaaS}

func newRecsState() recsState {
	return recsState{
		sortKey: recommend.SortImpact,
		search:  newSearchInput(),
	}
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "id, title, provider, resource or category"
	ti.CharLimit = 100
	ti.Width = 50
	return ti
}

// setPrefs adopts stored preferences. An unknown sort key falls back to impact.
func (s *recsState) setPrefs(p model.ViewPrefs) {
	key, err := recommend.ParseSortKey(p.SortBy)
	if err != nil {
		key = recommend.SortImpact
	}
	p.SortBy = string(key)
	s.prefs = p
	s.sortKey = key
}

// refresh re-derives the visible list from all recommendations.
func (s *recsState) refresh(all []model.Recommendation) {
	list := recommend.FilterFromPrefs(s.prefs).Apply(all)
	recommend.Sort(list, s.sortKey, s.prefs.SortDesc)
	s.list = list
	s.move(0)
}

func (s *recsState) move(delta int) {
	s.cursor = min(max(s.cursor+delta, 0), max(len(s.list)-1, 0))
	s.detailScroll = 0
}

func (s recsState) selected() (model.Recommendation, bool) {
	if s.cursor < 0 || s.cursor >= len(s.list) {
		return model.Recommendation{}, false
	}
	return s.list[s.cursor], true
}

// cycleOne steps a single-value filter through order and back to "any".
func cycleOne[T comparable](cur, order []T) []T {
	if len(cur) == 0 {
		return []T{order[0]}
	}
	if len(cur) == 1 {
		if i := slices.Index(order, cur[0]); i >= 0 && i < len(order)-1 {
			return []T{order[i+1]}
		}
	}
	return nil
}

func nextKind(k model.Kind) model.Kind {
	i := slices.Index(kindCycle, k)
	return kindCycle[(i+1)%len(kindCycle)]
}

func nextSortKey(k recommend.SortKey) recommend.SortKey {
	i := slices.Index(recommend.SortKeys, k)
	return recommend.SortKeys[(i+1)%len(recommend.SortKeys)]
}

// updateRecsKey handles list keys. ok is false when the key is not a list key.
func (a App) updateRecsKey(key string) (m tea.Model, cmd tea.Cmd, ok bool) {
	s := &a.recs
	switch key {
	case "j", "down":
		s.move(1)
	case "k", "up":
		s.move(-1)
	case "g":
		s.move(-len(s.list))
	case "G":
		s.move(len(s.list))
	case "J":
		s.detailScroll++
	case "K":
		s.detailScroll = max(s.detailScroll-1, 0)
	case "/":
		s.searching = true
		s.search.SetValue(s.prefs.Search)
		s.search.CursorEnd()
		return a, s.search.Focus(), true
	case "f":
		s.prefs.Kind = nextKind(s.prefs.Kind)
		return a.applyRecsPrefs()
	case "t":
		s.prefs.Statuses = cycleOne(s.prefs.Statuses, model.Statuses)
		return a.applyRecsPrefs()
	case "v":
		s.prefs.Severities = cycleOne(s.prefs.Severities, severityCycle)
		return a.applyRecsPrefs()
	case "s":
		s.sortKey = nextSortKey(s.sortKey)
		s.prefs.SortBy = string(s.sortKey)
		return a.applyRecsPrefs()
	case "d":
		s.prefs.SortDesc = !s.prefs.SortDesc
		return a.applyRecsPrefs()
	case "c":
		s.prefs = recommend.Filter{}.ApplyToPrefs(s.prefs)
		return a.applyRecsPrefs()
	case "esc":
		if s.prefs.Search == "" {
			return a, nil, true
		}
		s.prefs.Search = ""
		return a.applyRecsPrefs()
	default:
		return a, nil, false
	}
	return a, nil, true
}

// applyRecsPrefs re-filters the list and persists the new preferences.
func (a App) applyRecsPrefs() (tea.Model, tea.Cmd, bool) {
	a.recs.cursor = 0
	a.recs.refresh(a.data.All())
	return a, savePrefsCmd(a.prefs, a.recs.prefs), true
}

func (a App) updateRecsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.recs.searching = false
		a.recs.search.Blur()
		a.recs.prefs.Search = strings.TrimSpace(a.recs.search.Value())
		m, cmd, _ := a.applyRecsPrefs()
		return m, cmd
	case "esc":
		a.recs.searching = false
		a.recs.search.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.recs.search, cmd = a.recs.search.Update(msg)
	return a, cmd
}

// ─── Rendering ──────────────────────────────────────────────────

func (a App) renderRecsTab(cw, h int) string {
	t := theme.Active
	filterLine := a.renderRecsFilterLine(cw)
	if a.recs.searching {
		filterLine = lipgloss.NewStyle().Background(t.Surface).Width(cw).Render(" " + a.recs.search.View())
	}
	bodyH := max(h-lipgloss.Height(filterLine), minContentHeight)

	if a.isCompactLayout() {
		return filterLine + "\n" + a.renderRecsList(cw, bodyH)
	}
	listW := cw * 55 / 100
	return filterLine + "\n" + components.CardRow([]string{
		a.renderRecsList(listW, bodyH),
		a.renderRecsDetail(cw-listW, bodyH),
	})
}

func (a App) renderRecsFilterLine(cw int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	p := a.recs.prefs
	pill := func(label, value string) string {
		return dim.Render(" "+label+" ") + accent.Render(value)
	}
	kind := "all"
	if p.Kind != "" {
		kind = string(p.Kind)
	}
	dir := "↑"
	if p.SortDesc {
		dir = "↓"
	}

	line := pill("kind", kind) +
		dim.Render(" │") + pill("status", joinOr(p.Statuses, "all")) +
		dim.Render(" │") + pill("severity", joinOr(p.Severities, "all")) +
		dim.Render(" │") + pill("sort", string(a.recs.sortKey)+" "+dir)
	if p.Search != "" {
		line += dim.Render(" │") + pill("search", truncStr(p.Search, 20))
	}
	line += dim.Render(fmt.Sprintf("  %d of %d", len(a.recs.list), a.summary.Count))

	return lipgloss.NewStyle().Background(t.Surface).Width(cw).MaxWidth(cw).Render(line)
}

func joinOr[T ~string](xs []T, empty string) string {
	if len(xs) == 0 {
		return empty
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = string(x)
	}
	return strings.Join(parts, ",")
}

func severityTag(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "CRIT"
	case model.SeverityHigh:
		return "HIGH"
	case model.SeverityMedium:
		return "MED"
	default:
		return "LOW"
	}
}

// visibleStart returns the first row to draw so the cursor stays in view.
func visibleStart(cursor, rows int) int {
	if rows <= 0 || cursor < rows {
		return 0
	}
	return cursor - rows + 1
}

func (a App) renderRecsList(outerW, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)
	rows := max(h-4, 1) // border, title, header

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(a.recs.list) == 0 {
		return components.FocusedCard("Recommendations", muted.Render("No recommendations match the current filters."), outerW)
	}

	const sevW, impactW, provW = 4, 11, 10
	titleW := max(innerW-sevW-impactW-provW-3, 8)

	var b strings.Builder
	b.WriteString(muted.Render(fmt.Sprintf("%-*s %-*s %-*s %*s", sevW, "SEV", titleW, "TITLE", provW, "PROVIDER", impactW, "IMPACT")))

	start := visibleStart(a.recs.cursor, rows)
	end := min(start+rows, len(a.recs.list))
	for i := start; i < end; i++ {
		r := a.recs.list[i]
		bg := t.Surface
		if i == a.recs.cursor {
			bg = t.SurfaceHover
		}
		base := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(bg)
		sev := lipgloss.NewStyle().Foreground(t.ForSeverity(r.Severity)).Background(bg).Bold(true)
		impactColor := t.TextPrimary
		if r.MonthlyImpact < 0 {
			impactColor = t.Green
		}
		impact := lipgloss.NewStyle().Foreground(impactColor).Background(bg)

		b.WriteString("\n")
		b.WriteString(sev.Render(fmt.Sprintf("%-*s", sevW, severityTag(r.Severity))))
		b.WriteString(base.Render(fmt.Sprintf(" %-*s %-*s ", titleW, truncStr(r.Title, titleW), provW, truncStr(r.Provider, provW))))
		b.WriteString(impact.Render(fmt.Sprintf("%*s", impactW, cli.FormatImpact(r.MonthlyImpact))))
	}

	title := fmt.Sprintf("Recommendations (%d/%d)", a.recs.cursor+1, len(a.recs.list))
	return components.FocusedCard(title, b.String(), outerW)
}

func (a App) renderRecsDetail(outerW, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	r, ok := a.recs.selected()
	if !ok {
		return components.ContentCard("Detail", "", outerW)
	}

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	green := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	sev := lipgloss.NewStyle().Foreground(t.ForSeverity(r.Severity)).Background(t.Surface).Bold(true)

	field := func(name, v string) string {
		return label.Render(fmt.Sprintf("%-11s", name)) + value.Render(truncStr(v, innerW-11))
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true).Render(truncStr(r.Title, innerW)),
		"",
		field("ID", r.ID),
		field("Kind", string(r.Kind)),
		field("Provider", r.Provider),
		field("Resource", r.Resource),
		field("Category", r.Category),
		label.Render(fmt.Sprintf("%-11s", "Severity")) + sev.Render(string(r.Severity)),
		field("Status", string(r.Status)),
		field("Effort", r.Effort),
		field("Detected", cli.FormatAgo(r.DetectedAt, a.data.AsOf)),
		"",
		label.Render(fmt.Sprintf("%-11s", "Monthly")) + green.Render(cli.FormatImpact(r.MonthlyImpact)),
		field("Yearly", cli.FormatCost(r.MonthlyImpact*12)),
	}
	if r.Kind == model.KindSaaS && r.Seats > 0 {
		lines = append(lines, "",
			components.UtilizationBar("Seats", r.ActiveSeats, r.Seats, 10, max(innerW-32, 8)),
			field("Per seat", cli.FormatCost(r.CostPerSeat)+"/mo"),
		)
	}
	if r.AnomalyID != "" {
		lines = append(lines, "", field("Anomaly", r.AnomalyID))
		if an, err := a.data.Anomaly(r.AnomalyID); err == nil {
			lines = append(lines, label.Render(truncStr(an.Summary, innerW)))
		}
	}

	rows := max(h-3, 1)
	scroll := min(a.recs.detailScroll, max(len(lines)-rows, 0))
	lines = lines[scroll:]
	if len(lines) > rows {
		lines = lines[:rows]
	}
	return components.ContentCard("Detail", strings.Join(lines, "\n"), outerW)
}
