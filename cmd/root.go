package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/optiview/internal/catalog"
	"github.com/theirongolddev/optiview/internal/config"
	"github.com/theirongolddev/optiview/internal/store"
	"github.com/theirongolddev/optiview/internal/synth"
)

var (
	flagConfig string
	flagSeed   int64
	flagQuiet  bool
)

// cfg is loaded once per invocation before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:               "optiview",
	Short:             "Cloud and SaaS cost optimization dashboard",
	Long:              "Browse savings recommendations, inspect cost anomalies and their trend, and serve the same data over HTTP.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) { _ = zap.L().Sync() },
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.ConfigPath(), "Config file")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Seed for generated data (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
}

// setup loads the config file and initializes the global logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.LoadFrom(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.General.Seed = flagSeed
	}
	if flagQuiet {
		cfg.Log.Level = "error"
	}

	// The TUI owns the terminal; only log there when a file is configured.
	if cmd.Name() == "tui" && cfg.Log.File == "" {
		zap.ReplaceGlobals(zap.NewNop())
		return nil
	}
	return config.InitLogger(cfg.Log)
}

// loadDataset builds the dataset every command reads from.
func loadDataset() (*catalog.Dataset, error) {
	gen := synth.New(cfg.General.Seed)
	data := catalog.Build(gen, catalog.Options{SaaSCount: cfg.General.SaaSCount})
	zap.L().Debug("dataset built",
		zap.Int64("seed", cfg.General.Seed),
		zap.Int("recommendations", len(data.All())),
		zap.Int("anomalies", len(data.Anomalies())),
	)
	return data, nil
}

func openStore() (*store.Store, error) {
	path := cfg.StorePath()
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening preference store %s: %w", path, err)
	}
	zap.L().Debug("preference store opened", zap.String("path", path))
	return st, nil
}
