package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/tui/components"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// settingsState tracks the settings tab. form is non-nil while editing.
// vals is bound by the form and must survive App copies.
type settingsState struct {
	form *huh.Form
	vals *SetupValues
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	vals := ValuesFromConfig(a.cfg)
	a.settings.vals = &vals
	a.settings.form = newSettingsForm(a.settings.vals).WithWidth(min(a.contentWidth()-4, 72))
	return a, a.settings.form.Init()
}

func (a App) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.settings.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.settings.form = f
	}

	switch a.settings.form.State {
	case huh.StateCompleted:
		a.settings.form = nil
		return a.applyValues(*a.settings.vals)
	case huh.StateAborted:
		a.settings.form = nil
		return a, nil
	}
	return a, cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	if a.settings.form != nil {
		return components.FocusedCard("Edit settings", a.settings.form.View(), cw)
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-20s", label+":")) + valueStyle.Render(value)
	}

	kind := a.cfg.General.DefaultKind
	if kind == "" {
		kind = "all"
	}

	settings := []string{
		row("Theme", a.cfg.Appearance.Theme),
		row("Fallback baseline", cli.FormatCost(a.builder.FallbackBaseline)+"/day"),
		row("Window", fmt.Sprintf("%d back, %d ahead", a.builder.LookBack, a.builder.LookAhead)),
		row("Default kind", kind),
		"",
		labelStyle.Render("[Enter] edit theme and fallback baseline"),
	}

	var info []string
	info = append(info,
		row("Config file", a.configPath),
		row("Seed", fmt.Sprintf("%d", a.cfg.General.Seed)),
		row("SaaS generated", fmt.Sprintf("%d", a.cfg.General.SaaSCount)),
		row("Load time", fmt.Sprintf("%.2fs", a.loadTime.Seconds())),
	)
	if a.data != nil {
		info = append(info, row("Data as of", a.data.AsOf.Format("2006-01-02")))
	}
	if a.prefs == nil {
		info = append(info, row("Preferences", "not persisted"))
	} else {
		info = append(info, row("Preferences", "view "+PrefsView))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", strings.Join(settings, "\n"), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", strings.Join(info, "\n"), cw))
	return b.String()
}
