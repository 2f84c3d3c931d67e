// Package cmd implements the optiview CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/optiview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", flagConfig)
	if config.Exists(flagConfig) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	kind := cfg.General.DefaultKind
	if kind == "" {
		kind = "all"
	}
	fmt.Println("  [General]")
	fmt.Printf("    Seed:           %d", cfg.General.Seed)
	if cmd.Flags().Changed("seed") {
		fmt.Print(" (from --seed)")
	}
	fmt.Println()
	fmt.Printf("    SaaS count:     %d\n", cfg.General.SaaSCount)
	fmt.Printf("    Default kind:   %s\n", kind)
	fmt.Println()

	fmt.Println("  [Trend]")
	fmt.Printf("    Fallback baseline: $%.2f/day\n", cfg.Trend.FallbackBaseline)
	fmt.Printf("    Look back:         %d days\n", cfg.Trend.LookBack)
	fmt.Printf("    Look ahead:        %d days\n", cfg.Trend.LookAhead)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	if len(cfg.Server.CORSOrigins) > 0 {
		fmt.Printf("    CORS:    %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
	} else {
		fmt.Println("    CORS:    disabled")
	}
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:       %s\n", cfg.Log.Level)
	fmt.Printf("    Development: %v\n", cfg.Log.Development)
	if cfg.Log.File != "" {
		fmt.Printf("    File:        %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Path: %s\n", cfg.StorePath())
	fmt.Println()

	fmt.Println("  Run `optiview setup` to reconfigure.")
	return nil
}
