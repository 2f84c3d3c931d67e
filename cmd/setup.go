package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/optiview/internal/config"
	"github.com/theirongolddev/optiview/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file, not the flag-adjusted config, so --seed and
	// --quiet are not persisted.
	base, err := config.LoadFrom(flagConfig)
	if err != nil {
		return err
	}
	vals := tui.ValuesFromConfig(base)
	if err := tui.NewSetupForm(flagConfig, &vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := vals.Apply(&base); err != nil {
		return err
	}
	if err := config.SaveTo(flagConfig, base); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", flagConfig)
	fmt.Println("  Run `optiview setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
