package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theirongolddev/optiview/internal/trend"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(SeedEnv, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(SeedEnv, "")
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.General.Seed = 7
	cfg.Trend.FallbackBaseline = 1234.5
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Server.CORSOrigins = []string{"https://dash.example.com"}
	cfg.Store.Path = "/tmp/prefs.db"
	require.NoError(t, SaveTo(path, cfg))
	assert.True(t, Exists(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(SeedEnv, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[trend]\nfallback_baseline = 50\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.Trend.FallbackBaseline)
	assert.Equal(t, 7, cfg.Trend.LookBack)
	assert.Equal(t, int64(20240601), cfg.General.Seed)
}

func TestLoadFrom_SeedEnvOverride(t *testing.T) {
	t.Setenv(SeedEnv, "99")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.General.Seed)

	t.Setenv(SeedEnv, "abc")
	_, err = LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Setenv(SeedEnv, "")
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o600))
	_, err := LoadFrom(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[general]\ndefault_kind = \"mainframe\"\n"), 0o600))
	_, err = LoadFrom(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[trend]\nfallback_baseline = -1.0\n"), 0o600))
	_, err = LoadFrom(path)
	assert.Error(t, err)
}

func TestPaths_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_CACHE_HOME", "/cache")

	assert.Equal(t, "/cfg/optiview/config.toml", ConfigPath())
	assert.Equal(t, "/cache/optiview/prefs.db", DefaultConfig().StorePath())
}

func TestInitLogger(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	logFile := filepath.Join(t.TempDir(), "optiview.log")
	require.NoError(t, InitLogger(LogConfig{Level: "debug", File: logFile}))
	zap.L().Debug("hello")
	_ = zap.L().Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	assert.Error(t, InitLogger(LogConfig{Level: "loud"}))
}

func TestTrendBuilder(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, trend.NewBuilder(), cfg.TrendBuilder())

	cfg.Trend.FallbackBaseline = 10
	cfg.Trend.LookBack = 3
	b := cfg.TrendBuilder()
	assert.InDelta(t, 10.0, b.FallbackBaseline, 1e-9)
	assert.Equal(t, 3, b.LookBack)
	assert.Equal(t, 7, b.LookAhead)
}

func TestSaveTo_ReportsWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	assert.Error(t, SaveTo("/dev/full", DefaultConfig()))
}
