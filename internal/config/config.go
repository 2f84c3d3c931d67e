// Package config loads optiview settings from a TOML file under the XDG
// config directory.
package config

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"

	"github.com/theirongolddev/optiview/internal/trend"
)

// SeedEnv overrides general.seed when set.
const SeedEnv = "OPTIVIEW_SEED"

// Config holds all optiview configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Trend      TrendConfig      `toml:"trend"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Store      StoreConfig      `toml:"store"`
}

// GeneralConfig holds dataset settings.
type GeneralConfig struct {
	Seed        int64  `toml:"seed"`
	SaaSCount   int    `toml:"saas_count"`
	DefaultKind string `toml:"default_kind,omitempty"`
}

// TrendConfig tunes the trend window builder.
type TrendConfig struct {
	FallbackBaseline float64 `toml:"fallback_baseline"`
	LookBack         int     `toml:"look_back"`
	LookAhead        int     `toml:"look_ahead"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// LogConfig holds zap settings.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
	File        string `toml:"file,omitempty"`
}

// StoreConfig holds the preference database location.
type StoreConfig struct {
	Path string `toml:"path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Seed:      20240601,
			SaaSCount: 24,
		},
		Trend: TrendConfig{
			FallbackBaseline: 3200,
			LookBack:         7,
			LookAhead:        7,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8788",
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "optiview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "optiview")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "optiview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "optiview")
}

// StorePath returns the configured preference database path or the default.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(CacheDir(), "prefs.db")
}

// TrendBuilder returns the trend window builder configured by [trend].
func (c Config) TrendBuilder() trend.Builder {
	return trend.Builder{
		FallbackBaseline: c.Trend.FallbackBaseline,
		LookBack:         c.Trend.LookBack,
		LookAhead:        c.Trend.LookAhead,
	}
}

// Load reads the default config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path. A missing file yields defaults.
// Environment overrides are applied last.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is user-supplied config location
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, eris.Wrap(err, "reading config")
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, eris.Wrapf(err, "parsing config %s", path)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	v := strings.TrimSpace(os.Getenv(SeedEnv))
	if v == "" {
		return nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return eris.Wrapf(err, "%s", SeedEnv)
	}
	cfg.General.Seed = seed
	return nil
}

// Validate rejects settings the rest of the program cannot use.
func (c Config) Validate() error {
	if c.General.SaaSCount < 0 {
		return eris.Errorf("general.saas_count must be >= 0, got %d", c.General.SaaSCount)
	}
	if b := c.Trend.FallbackBaseline; b < 0 || math.IsNaN(b) || math.IsInf(b, 0) {
		return eris.Errorf("trend.fallback_baseline must be a finite number >= 0, got %v", b)
	}
	if c.Trend.LookBack < 0 || c.Trend.LookAhead < 0 {
		return eris.New("trend.look_back and trend.look_ahead must be >= 0")
	}
	switch c.General.DefaultKind {
	case "", "cloud", "saas":
	default:
		return eris.Errorf("general.default_kind must be cloud, saas or empty, got %q", c.General.DefaultKind)
	}
	return nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path. A failed close is reported like a
// failed write.
func SaveTo(path string, cfg Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "creating config dir")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // see LoadFrom
	if err != nil {
		return eris.Wrap(err, "creating config file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "closing config file")
		}
	}()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return eris.Wrap(err, "encoding config")
	}
	return nil
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
