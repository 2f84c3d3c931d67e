package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/recommend"
	"github.com/theirongolddev/optiview/internal/store"
)

var (
	flagRecsKind     string
	flagRecsSeverity string
	flagRecsStatus   string
	flagRecsSearch   string
	flagRecsProvider string
	flagRecsSort     string
	flagRecsDesc     bool
	flagRecsView     string
	flagRecsLimit    int
	flagRecsFormat   string
)

var recsCmd = &cobra.Command{
	Use:     "recs",
	Aliases: []string{"recommendations"},
	Short:   "List savings recommendations",
	Long: "List savings recommendations. With --view, the filters and sort stored for that " +
		"view are applied first; flags given explicitly override them.",
	RunE: runRecs,
}

func init() {
	f := recsCmd.Flags()
	f.StringVar(&flagRecsKind, "kind", "", "Filter by kind: cloud or saas")
	f.StringVar(&flagRecsSeverity, "severity", "", "Comma-separated severities")
	f.StringVar(&flagRecsStatus, "status", "", "Comma-separated statuses")
	f.StringVarP(&flagRecsSearch, "search", "s", "", "Substring of id, title, provider, resource or category")
	f.StringVar(&flagRecsProvider, "provider", "", "Exact provider or vendor")
	f.StringVar(&flagRecsSort, "sort", "impact", "Sort key: impact, severity, detected, title or provider")
	f.BoolVar(&flagRecsDesc, "desc", false, "Reverse the sort order")
	f.StringVar(&flagRecsView, "view", "", "Start from the preferences stored for this view")
	f.IntVarP(&flagRecsLimit, "limit", "l", 0, "Show at most this many rows (0 = all)")
	addFormatFlag(recsCmd, &flagRecsFormat)
	rootCmd.AddCommand(recsCmd)
}

// recsPrefs merges stored view preferences with the flags set on cmd.
func recsPrefs(cmd *cobra.Command) (model.ViewPrefs, error) {
	var p model.ViewPrefs
	if flagRecsView != "" {
		st, err := openStore()
		if err != nil {
			return p, err
		}
		defer func() { _ = st.Close() }()

		p, err = st.LoadPrefs(flagRecsView)
		switch {
		case errors.Is(err, store.ErrNotFound):
			zap.L().Debug("no stored prefs", zap.String("view", flagRecsView))
		case err != nil:
			return p, err
		}
	}
	if err := applyPrefsFlags(cmd, &p, prefsFlags{
		kind:     flagRecsKind,
		severity: flagRecsSeverity,
		status:   flagRecsStatus,
		search:   flagRecsSearch,
		sort:     flagRecsSort,
		desc:     flagRecsDesc,
	}); err != nil {
		return p, err
	}
	return p, recommend.ValidatePrefs(p)
}

func runRecs(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(flagRecsFormat); err != nil {
		return err
	}
	prefs, err := recsPrefs(cmd)
	if err != nil {
		return err
	}
	data, err := loadDataset()
	if err != nil {
		return err
	}

	f := recommend.FilterFromPrefs(prefs)
	f.Provider = flagRecsProvider
	recs := f.Apply(data.All())
	key, _ := recommend.ParseSortKey(prefs.SortBy)
	recommend.Sort(recs, key, prefs.SortDesc)

	limit := flagRecsLimit
	if !cmd.Flags().Changed("limit") && prefs.PageSize > 0 {
		limit = prefs.PageSize
	}
	total := len(recs)
	if limit > 0 {
		recs = recommend.Page(recs, 0, limit)
	}

	if ok, err := writeStructured(flagRecsFormat, struct {
		Total int                    `json:"total" yaml:"total"`
		Items []model.Recommendation `json:"items" yaml:"items"`
	}{total, recs}); ok || err != nil {
		return err
	}

	if total == 0 {
		fmt.Println("\n  No recommendations match.")
		return nil
	}

	var sum float64
	rows := make([][]string, 0, len(recs)+2)
	for _, r := range recs {
		sum += r.MonthlyImpact
		rows = append(rows, []string{
			r.ID,
			cli.SeverityLabel(r.Severity),
			string(r.Kind),
			r.Provider,
			truncate(r.Title, 44),
			string(r.Status),
			cli.FormatImpact(r.MonthlyImpact),
		})
	}
	rows = append(rows, []string{"---"}, []string{"TOTAL", "", "", "", "", "", cli.FormatImpact(sum)})

	title := fmt.Sprintf("Recommendations (%d of %d, by %s)", len(recs), total, key)
	if prefs.SortDesc {
		title = fmt.Sprintf("Recommendations (%d of %d, by %s reversed)", len(recs), total, key)
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"ID", "Sev", "Kind", "Provider", "Title", "Status", "Impact"},
		Rows:    rows,
	}))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
