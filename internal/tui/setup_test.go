package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/optiview/internal/config"
)

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := ValuesFromConfig(cfg)
	assert.Equal(t, "3200", vals.FallbackBaseline)
	assert.Equal(t, "20240601", vals.Seed)

	vals.Theme = "tokyo-night"
	vals.Seed = "7"
	vals.SaaSCount = "10"
	vals.DefaultKind = "saas"
	vals.FallbackBaseline = "1250.5"
	require.NoError(t, vals.Apply(&cfg))

	assert.Equal(t, "tokyo-night", cfg.Appearance.Theme)
	assert.Equal(t, int64(7), cfg.General.Seed)
	assert.Equal(t, 10, cfg.General.SaaSCount)
	assert.Equal(t, "saas", cfg.General.DefaultKind)
	assert.InDelta(t, 1250.5, cfg.Trend.FallbackBaseline, 1e-9)
}

func TestSetupValuesBlankKeepsCurrent(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, SetupValues{}.Apply(&cfg))
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestSetupValuesRejects(t *testing.T) {
	for name, vals := range map[string]SetupValues{
		"theme":    {Theme: "solarized"},
		"seed":     {Seed: "abc"},
		"count":    {SaaSCount: "-1"},
		"baseline": {FallbackBaseline: "NaN"},
		"negative": {FallbackBaseline: "-5"},
		"kind":     {DefaultKind: "onprem"},
	} {
		cfg := config.DefaultConfig()
		assert.Error(t, vals.Apply(&cfg), name)
	}
}

func TestFormsBuild(t *testing.T) {
	vals := ValuesFromConfig(config.DefaultConfig())
	assert.NotNil(t, NewSetupForm("/tmp/config.toml", &vals))
	assert.NotNil(t, newSettingsForm(&vals))
}
