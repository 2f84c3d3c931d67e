package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rotisserie/eris"

	"github.com/theirongolddev/optiview/internal/config"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

// SetupValues holds the editable form fields as strings, the way huh inputs
// bind them. Apply parses them back into a config.
type SetupValues struct {
	Theme            string
	Seed             string
	SaaSCount        string
	DefaultKind      string
	FallbackBaseline string
}

// ValuesFromConfig seeds form fields from cfg.
func ValuesFromConfig(cfg config.Config) SetupValues {
	return SetupValues{
		Theme:            cfg.Appearance.Theme,
		Seed:             strconv.FormatInt(cfg.General.Seed, 10),
		SaaSCount:        strconv.Itoa(cfg.General.SaaSCount),
		DefaultKind:      cfg.General.DefaultKind,
		FallbackBaseline: strconv.FormatFloat(cfg.Trend.FallbackBaseline, 'f', -1, 64),
	}
}

// Apply writes the parsed values into cfg. Empty numeric fields keep the
// current value.
func (v SetupValues) Apply(cfg *config.Config) error {
	if v.Theme != "" {
		if !theme.Valid(v.Theme) {
			return eris.Errorf("unknown theme %q", v.Theme)
		}
		cfg.Appearance.Theme = v.Theme
	}
	if s := strings.TrimSpace(v.Seed); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return eris.Wrap(err, "seed")
		}
		cfg.General.Seed = seed
	}
	if s := strings.TrimSpace(v.SaaSCount); s != "" {
		n, err := parseCount(s)
		if err != nil {
			return err
		}
		cfg.General.SaaSCount = n
	}
	if s := strings.TrimSpace(v.FallbackBaseline); s != "" {
		f, err := parseBaseline(s)
		if err != nil {
			return err
		}
		cfg.Trend.FallbackBaseline = f
	}
	cfg.General.DefaultKind = v.DefaultKind
	return cfg.Validate()
}

func parseBaseline(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, eris.Errorf("fallback baseline must be a non-negative number, got %q", s)
	}
	return f, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 500 {
		return 0, eris.Errorf("SaaS count must be between 0 and 500, got %q", s)
	}
	return n, nil
}

func validateOptional(parse func(string) error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return parse(s)
	}
}

func themeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		opts = append(opts, huh.NewOption(t.Name, t.Name))
	}
	return opts
}

// NewSetupForm builds the first-run wizard. It is shared by the dashboard
// and the setup command.
func NewSetupForm(configPath string, vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to optiview").
				Description(fmt.Sprintf("Settings are saved to %s.\nRun `optiview setup` anytime to change them.", configPath)),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions()...).
				Value(&vals.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Dataset seed").
				Description("Same seed, same generated SaaS recommendations.").
				Value(&vals.Seed).
				Validate(validateOptional(func(s string) error {
					_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					return err
				})),
			huh.NewInput().
				Title("Generated SaaS recommendations").
				Value(&vals.SaaSCount).
				Validate(validateOptional(func(s string) error {
					_, err := parseCount(s)
					return err
				})),
			huh.NewSelect[string]().
				Title("Default recommendation kind").
				Options(
					huh.NewOption("All", ""),
					huh.NewOption("Cloud", "cloud"),
					huh.NewOption("SaaS", "saas"),
				).
				Value(&vals.DefaultKind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Trend fallback baseline").
				Description("Daily cost used when a window has no normal days.").
				Value(&vals.FallbackBaseline).
				Validate(validateOptional(func(s string) error {
					_, err := parseBaseline(s)
					return err
				})),
		),
	).WithShowHelp(true)
}

// newSettingsForm is the in-dashboard editor for theme and trend fallback.
func newSettingsForm(vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions()...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Trend fallback baseline").
				Value(&vals.FallbackBaseline).
				Validate(validateOptional(func(s string) error {
					_, err := parseBaseline(s)
					return err
				})),
		),
	).WithShowHelp(false)
}
