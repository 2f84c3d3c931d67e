package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/optiview/internal/config"
	"github.com/theirongolddev/optiview/internal/tui"
	"github.com/theirongolddev/optiview/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts := tui.Options{
		Config:     cfg,
		ConfigPath: flagConfig,
		Load:       loadDataset,
		NeedSetup:  !config.Exists(flagConfig),
	}
	// Without a store the dashboard still works; filters just aren't remembered.
	if st, err := openStore(); err != nil {
		zap.L().Warn("preferences disabled", zap.Error(err))
	} else {
		defer func() { _ = st.Close() }()
		opts.Prefs = st
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
