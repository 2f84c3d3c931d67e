// Package tui provides the interactive Bubble Tea dashboard for optiview.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/catalog"
	"github.com/theirongolddev/optiview/internal/config"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/recommend"
	"github.com/theirongolddev/optiview/internal/store"
	"github.com/theirongolddev/optiview/internal/trend"
	"github.com/theirongolddev/optiview/internal/tui/components"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// PrefsView is the preference key the dashboard's recommendation list uses.
const PrefsView = "tui-recommendations"

// PrefsStore persists view preferences. *store.Store satisfies it.
type PrefsStore interface {
	LoadPrefs(view string) (model.ViewPrefs, error)
	SavePrefs(view string, p model.ViewPrefs) (model.ViewPrefs, error)
}

// Options configures a new App.
type Options struct {
	Config     config.Config
	ConfigPath string
	Load       func() (*catalog.Dataset, error)
	Prefs      PrefsStore // nil disables persistence
	NeedSetup  bool       // run the first-run wizard after loading
}

// DataLoadedMsg is sent when the dataset and stored preferences are ready.
type DataLoadedMsg struct {
	Data     *catalog.Dataset
	Prefs    model.ViewPrefs
	Err      error
	LoadTime time.Duration
}

type prefsSavedMsg struct{ err error }

type configSavedMsg struct{ err error }

type clearStatusMsg struct{ seq int }

// App is the root Bubble Tea model.
type App struct {
	// Data
	data      *catalog.Dataset
	anomalies []model.Anomaly
	summary   model.SavingsSummary
	loaded    bool
	loadErr   error
	loadTime  time.Duration

	// Dependencies
	cfg        config.Config
	configPath string
	builder    trend.Builder
	load       func() (*catalog.Dataset, error)
	prefs      PrefsStore

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	recs     recsState
	anoms    anomState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model

	// Transient status line message
	status    string
	statusErr bool
	statusSeq int
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	statusTTL = 3 * time.Second
)

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		builder:    opts.Config.TrendBuilder(),
		load:       opts.Load,
		prefs:      opts.Prefs,
		needSetup:  opts.NeedSetup,
		spinner:    sp,
		recs:       newRecsState(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.load, a.prefs, a.cfg.General.DefaultKind),
		a.spinner.Tick,
	)
}

// loadDataCmd builds the dataset and reads the stored list preferences.
// Missing preferences fall back to the configured default kind.
func loadDataCmd(load func() (*catalog.Dataset, error), prefs PrefsStore, defaultKind string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if load == nil {
			return DataLoadedMsg{Err: errors.New("no dataset loader configured")}
		}
		data, err := load()
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}

		p := model.ViewPrefs{Kind: model.Kind(defaultKind)}
		if prefs != nil {
			stored, err := prefs.LoadPrefs(PrefsView)
			switch {
			case err == nil:
				p = stored
			case !errors.Is(err, store.ErrNotFound):
				// Unreadable prefs are not fatal; the list starts unfiltered.
				p = model.ViewPrefs{}
			}
		}
		return DataLoadedMsg{Data: data, Prefs: p, LoadTime: time.Since(start)}
	}
}

func savePrefsCmd(prefs PrefsStore, p model.ViewPrefs) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		_, err := prefs.SavePrefs(PrefsView, p)
		return prefsSavedMsg{err: err}
	}
}

func saveConfigCmd(path string, cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		return configSavedMsg{err: config.SaveTo(path, cfg)}
	}
}

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// setStatus shows msg in the status bar until the next message or statusTTL.
func (a *App) setStatus(msg string, isErr bool) tea.Cmd {
	a.statusSeq++
	a.status = msg
	a.statusErr = isErr
	return clearStatusCmd(a.statusSeq)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.data = msg.Data
		a.summary = recommend.Summarize(a.data.All())
		a.recs.setPrefs(msg.Prefs)
		a.recs.refresh(a.data.All())
		a.anomalies = a.data.Anomalies()
		a.anoms.move(0, len(a.anomalies))

		if a.needSetup {
			vals := ValuesFromConfig(a.cfg)
			a.setupVals = &vals
			a.setupForm = NewSetupForm(a.configPath, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case prefsSavedMsg:
		if msg.err != nil {
			return a, a.setStatus("could not save preferences: "+msg.err.Error(), true)
		}
		return a, nil

	case configSavedMsg:
		if msg.err != nil {
			return a, a.setStatus("could not save config: "+msg.err.Error(), true)
		}
		return a, a.setStatus("settings saved", false)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
			a.statusErr = false
		}
		return a, nil
	}

	// Forward everything else (cursor blinks, etc.) to an open form.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.settings.form != nil {
		return a.updateSettingsForm(msg)
	}
	if a.recs.searching {
		var cmd tea.Cmd
		a.recs.search, cmd = a.recs.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.loadErr != nil {
		if key == "q" || key == "esc" {
			return a, tea.Quit
		}
		return a, nil
	}

	// Open forms and text inputs get every key.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == components.TabSettings && a.settings.form != nil {
		if key == "esc" {
			a.settings.form = nil
			return a, nil
		}
		return a.updateSettingsForm(msg)
	}
	if a.activeTab == components.TabRecommendations && a.recs.searching {
		return a.updateRecsSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case components.TabRecommendations:
		if m, cmd, ok := a.updateRecsKey(key); ok {
			return m, cmd
		}
	case components.TabAnomalies:
		if m, cmd, ok := a.updateAnomKey(key); ok {
			return m, cmd
		}
	case components.TabSettings:
		if key == "enter" || key == "e" {
			return a.settingsStartEdit()
		}
	}

	if key == "q" {
		return a, tea.Quit
	}

	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.loadErr != nil || a.showHelp || a.setupForm != nil || a.settings.form != nil {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// moveCursor moves the list cursor of the active tab by delta.
func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case components.TabRecommendations:
		a.recs.move(delta)
	case components.TabAnomalies:
		a.anoms.move(delta, len(a.anomalies))
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		return a.applyValues(*a.setupVals)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applyValues applies edited settings to the running dashboard and saves them.
func (a App) applyValues(vals SetupValues) (tea.Model, tea.Cmd) {
	cfg := a.cfg
	if err := vals.Apply(&cfg); err != nil {
		return a, a.setStatus(err.Error(), true)
	}
	a.cfg = cfg
	a.builder = cfg.TrendBuilder()
	theme.SetActive(cfg.Appearance.Theme)
	return a, saveConfigCmd(a.configPath, cfg)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  optiview needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ optiview"))
	b.WriteString(subtitleStyle.Render(" · Cost Optimization"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Building dataset..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := errStyle.Render("Could not load data") + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Render(a.loadErr.Error()) +
		"\n\n" + dimStyle.Render("Press q to quit")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o r a x", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in lists"},
			{"g G", "First / Last item"},
			{"J K", "Scroll detail pane"},
		}},
		{"Recommendations", [][2]string{
			{"/", "Search"},
			{"f", "Cycle kind filter"},
			{"t", "Cycle status filter"},
			{"v", "Cycle severity filter"},
			{"s d", "Cycle sort key / Toggle direction"},
			{"c", "Clear filters"},
		}},
		{"General", [][2]string{
			{"Enter", "Edit settings"},
			{"Esc", "Back / Cancel"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusInfo() components.StatusInfo {
	info := components.StatusInfo{
		Message: a.status,
		IsError: a.statusErr,
	}
	switch a.activeTab {
	case components.TabRecommendations:
		info.Hints = "[/]search [f]kind [t]status [v]severity [s]ort [d]esc"
	case components.TabAnomalies:
		info.Hints = "[j/k]select"
	case components.TabSettings:
		info.Hints = "[enter]edit"
	}
	if a.data != nil {
		info.Right = fmt.Sprintf("as of %s · %d recs · %d anomalies",
			a.data.AsOf.Format("2006-01-02"), a.summary.Count, len(a.anomalies))
	}
	return info
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusInfo())

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case components.TabOverview:
		content = a.renderOverviewTab(cw)
	case components.TabRecommendations:
		content = a.renderRecsTab(cw, contentH)
	case components.TabAnomalies:
		content = a.renderAnomaliesTab(cw, contentH)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab index at column x of the tab bar, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n >= h {
		return s
	}
	return s + strings.Repeat("\n", h-n)
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
