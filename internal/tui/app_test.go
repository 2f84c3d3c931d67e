package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/optiview/internal/catalog"
	"github.com/theirongolddev/optiview/internal/config"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/recommend"
	"github.com/theirongolddev/optiview/internal/store"
	"github.com/theirongolddev/optiview/internal/synth"
	"github.com/theirongolddev/optiview/internal/tui/components"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

type memPrefs struct {
	views map[string]model.ViewPrefs
	saves int
}

func newMemPrefs() *memPrefs {
	return &memPrefs{views: make(map[string]model.ViewPrefs)}
}

func (m *memPrefs) LoadPrefs(view string) (model.ViewPrefs, error) {
	p, ok := m.views[view]
	if !ok {
		return model.ViewPrefs{}, eris.Wrapf(store.ErrNotFound, "view %q", view)
	}
	return p, nil
}

func (m *memPrefs) SavePrefs(view string, p model.ViewPrefs) (model.ViewPrefs, error) {
	m.saves++
	m.views[view] = p
	return p, nil
}

func testLoader() (*catalog.Dataset, error) {
	return catalog.Build(synth.New(1), catalog.Options{
		AsOf:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		SaaSCount: 10,
	}), nil
}

func newLoadedApp(t *testing.T, prefs PrefsStore) App {
	t.Helper()
	a := NewApp(Options{
		Config:     config.DefaultConfig(),
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Load:       testLoader,
		Prefs:      prefs,
	})
	var m tea.Model = a
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	m, _ = m.Update(loadDataCmd(testLoader, prefs, "")())
	return m.(App)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends keys in order and returns the final model and the last command.
func press(a App, keys ...string) (App, tea.Cmd) {
	var cmd tea.Cmd
	var m tea.Model = a
	for _, k := range keys {
		m, cmd = m.Update(keyMsg(k))
	}
	return m.(App), cmd
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			assert.Equal(t, i, a.tabAtX(pos+w/2), "active=%d", active)
			pos += w + 1
		}
		assert.Equal(t, -1, a.tabAtX(pos+50))
	}
}

func TestTabKeys(t *testing.T) {
	a := newLoadedApp(t, nil)
	assert.Equal(t, components.TabOverview, a.activeTab)

	a, _ = press(a, "r")
	assert.Equal(t, components.TabRecommendations, a.activeTab)
	a, _ = press(a, "x")
	assert.Equal(t, components.TabSettings, a.activeTab)
	a, _ = press(a, "right")
	assert.Equal(t, components.TabOverview, a.activeTab)
	a, _ = press(a, "left", "left")
	assert.Equal(t, components.TabAnomalies, a.activeTab)
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := newLoadedApp(t, nil)
	x := components.TabVisualWidth(components.Tabs[0], true) + 2
	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, components.TabRecommendations, m.(App).activeTab)
}

func TestLoadUsesStoredPrefs(t *testing.T) {
	prefs := newMemPrefs()
	prefs.views[PrefsView] = model.ViewPrefs{Kind: model.KindSaaS, SortBy: "bogus"}

	a := newLoadedApp(t, prefs)
	require.NotEmpty(t, a.recs.list)
	assert.Equal(t, recommend.SortImpact, a.recs.sortKey)
	for _, r := range a.recs.list {
		assert.Equal(t, model.KindSaaS, r.Kind)
	}
}

func TestLoadDefaultKindWhenNoPrefs(t *testing.T) {
	msg := loadDataCmd(testLoader, newMemPrefs(), "cloud")().(DataLoadedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, model.KindCloud, msg.Prefs.Kind)
}

func TestLoadError(t *testing.T) {
	a := NewApp(Options{Config: config.DefaultConfig()})
	var m tea.Model = a
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(loadDataCmd(func() (*catalog.Dataset, error) {
		return nil, errors.New("boom")
	}, nil, "")())

	view := m.View()
	assert.Contains(t, view, "Could not load data")
	assert.Contains(t, view, "boom")

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRecsFilterKeysPersistPrefs(t *testing.T) {
	prefs := newMemPrefs()
	a := newLoadedApp(t, prefs)
	total := len(a.recs.list)

	a, cmd := press(a, "r", "f")
	assert.Equal(t, model.KindCloud, a.recs.prefs.Kind)
	assert.Less(t, len(a.recs.list), total)
	for _, r := range a.recs.list {
		assert.Equal(t, model.KindCloud, r.Kind)
	}

	require.NotNil(t, cmd)
	saved := cmd()
	assert.Equal(t, prefsSavedMsg{}, saved)
	assert.Equal(t, model.KindCloud, prefs.views[PrefsView].Kind)

	a, _ = press(a, "t", "s", "d")
	assert.Equal(t, []model.Status{model.StatusOpen}, a.recs.prefs.Statuses)
	assert.Equal(t, recommend.SortSeverity, a.recs.sortKey)
	assert.True(t, a.recs.prefs.SortDesc)

	a, _ = press(a, "c")
	assert.Empty(t, a.recs.prefs.Kind)
	assert.Empty(t, a.recs.prefs.Statuses)
	assert.Equal(t, "severity", a.recs.prefs.SortBy, "clearing filters keeps sort")
	assert.Len(t, a.recs.list, total)
}

func TestRecsSearch(t *testing.T) {
	a := newLoadedApp(t, nil)
	a, _ = press(a, "r", "/")
	require.True(t, a.recs.searching)

	// Tab keys are text while searching.
	a, _ = press(a, "ec2", "enter")
	assert.Equal(t, components.TabRecommendations, a.activeTab)
	assert.False(t, a.recs.searching)
	assert.Equal(t, "ec2", a.recs.prefs.Search)
	require.NotEmpty(t, a.recs.list)
	for _, r := range a.recs.list {
		assert.True(t, recommend.Filter{Search: "ec2"}.Match(r), r.ID)
	}

	a, _ = press(a, "esc")
	assert.Empty(t, a.recs.prefs.Search)
}

func TestRecsCursor(t *testing.T) {
	a := newLoadedApp(t, nil)
	a, _ = press(a, "r", "j", "j")
	assert.Equal(t, 2, a.recs.cursor)
	a, _ = press(a, "G")
	assert.Equal(t, len(a.recs.list)-1, a.recs.cursor)
	a, _ = press(a, "k", "g")
	assert.Equal(t, 0, a.recs.cursor)
}

func TestCycleOne(t *testing.T) {
	order := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a"}, cycleOne(nil, order))
	assert.Equal(t, []string{"c"}, cycleOne([]string{"b"}, order))
	assert.Nil(t, cycleOne([]string{"c"}, order))
	assert.Nil(t, cycleOne([]string{"a", "b"}, order))
}

func TestVisibleStart(t *testing.T) {
	assert.Equal(t, 0, visibleStart(3, 10))
	assert.Equal(t, 6, visibleStart(15, 10))
	assert.Equal(t, 0, visibleStart(5, 0))
}

func TestViewRendersEachTab(t *testing.T) {
	a := newLoadedApp(t, nil)
	want := map[int]string{
		components.TabOverview:        "Available savings",
		components.TabRecommendations: "Recommendations (",
		components.TabAnomalies:       "Cost trend",
		components.TabSettings:        "Fallback baseline",
	}
	for tab, text := range want {
		a.activeTab = tab
		view := a.View()
		assert.Contains(t, view, text, "tab %d", tab)
		assert.Len(t, strings.Split(view, "\n"), 45, "tab %d", tab)
	}
}

func TestCompactLayoutRenders(t *testing.T) {
	a := newLoadedApp(t, nil)
	var m tea.Model = a
	m, _ = m.Update(tea.WindowSizeMsg{Width: 90, Height: 40})
	a = m.(App)
	for tab := range components.Tabs {
		a.activeTab = tab
		assert.NotEmpty(t, a.View())
	}
}

func TestTooNarrow(t *testing.T) {
	a := newLoadedApp(t, nil)
	var m tea.Model = a
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.View(), "Terminal too narrow")
}

func TestHelpToggle(t *testing.T) {
	a := newLoadedApp(t, nil)
	a, _ = press(a, "?")
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")
	a, _ = press(a, "j")
	assert.False(t, a.showHelp)
}

func TestAnomalyCursor(t *testing.T) {
	a := newLoadedApp(t, nil)
	a, _ = press(a, "a", "j")
	assert.Equal(t, 1, a.anoms.cursor)
	a, _ = press(a, "G")
	assert.Equal(t, len(a.anomalies)-1, a.anoms.cursor)
	assert.Contains(t, a.View(), a.anomalies[a.anoms.cursor].Service)
}

func TestApplyValuesSavesConfig(t *testing.T) {
	prev := theme.Active
	t.Cleanup(func() { theme.Active = prev })

	a := newLoadedApp(t, nil)
	vals := ValuesFromConfig(a.cfg)
	vals.Theme = "tokyo-night"
	vals.FallbackBaseline = "500"

	m, cmd := a.applyValues(vals)
	a = m.(App)
	assert.InDelta(t, 500.0, a.builder.FallbackBaseline, 1e-9)
	assert.Equal(t, "tokyo-night", theme.Active.Name)

	require.NotNil(t, cmd)
	assert.Equal(t, configSavedMsg{}, cmd())

	cfg, err := config.LoadFrom(a.configPath)
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", cfg.Appearance.Theme)
	assert.InDelta(t, 500.0, cfg.Trend.FallbackBaseline, 1e-9)
}

func TestApplyValuesRejectsInvalid(t *testing.T) {
	a := newLoadedApp(t, nil)
	m, _ := a.applyValues(SetupValues{FallbackBaseline: "lots"})
	a = m.(App)
	assert.True(t, a.statusErr)
	assert.InDelta(t, 3200.0, a.builder.FallbackBaseline, 1e-9)
}

func TestStatusClears(t *testing.T) {
	a := newLoadedApp(t, nil)
	_ = a.setStatus("first", false)
	_ = a.setStatus("second", false)

	m, _ := a.Update(clearStatusMsg{seq: 1})
	assert.Equal(t, "second", m.(App).status, "stale clear is ignored")
	m, _ = m.Update(clearStatusMsg{seq: 2})
	assert.Empty(t, m.(App).status)
}

func TestSettingsFormOpensAndCancels(t *testing.T) {
	a := newLoadedApp(t, nil)
	a, _ = press(a, "x", "enter")
	require.NotNil(t, a.settings.form)
	assert.Contains(t, a.View(), "Edit settings")

	a, _ = press(a, "esc")
	assert.Nil(t, a.settings.form)
}
