package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/recommend"
	"github.com/theirongolddev/optiview/internal/store"
)

var (
	flagPrefsKind     string
	flagPrefsSeverity string
	flagPrefsStatus   string
	flagPrefsSearch   string
	flagPrefsSort     string
	flagPrefsDesc     bool
	flagPrefsPageSize int
	flagPrefsFormat   string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored view preferences",
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List views with stored preferences",
	Args:  cobra.NoArgs,
	RunE:  runPrefsList,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show <view>",
	Short: "Show the preferences stored for a view",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <view>",
	Short: "Update the preferences stored for a view",
	Long:  "Update the preferences stored for a view. Only flags given explicitly change the stored value; pass an empty string to clear a filter.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsSet,
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset <view>",
	Short: "Delete the preferences stored for a view",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsReset,
}

func init() {
	f := prefsSetCmd.Flags()
	f.StringVar(&flagPrefsKind, "kind", "", "Kind filter: cloud or saas")
	f.StringVar(&flagPrefsSeverity, "severity", "", "Comma-separated severities")
	f.StringVar(&flagPrefsStatus, "status", "", "Comma-separated statuses")
	f.StringVar(&flagPrefsSearch, "search", "", "Search text")
	f.StringVar(&flagPrefsSort, "sort", "", "Sort key")
	f.BoolVar(&flagPrefsDesc, "desc", false, "Reverse the sort order")
	f.IntVar(&flagPrefsPageSize, "page-size", 0, "Rows per page (0 = all)")
	addFormatFlag(prefsShowCmd, &flagPrefsFormat)

	prefsCmd.AddCommand(prefsListCmd, prefsShowCmd, prefsSetCmd, prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}

// prefsFlags carries the raw values of the filter and sort flags shared by
// recs and prefs set.
type prefsFlags struct {
	kind     string
	severity string
	status   string
	search   string
	sort     string
	desc     bool
}

// applyPrefsFlags writes every flag the user set explicitly into p.
func applyPrefsFlags(cmd *cobra.Command, p *model.ViewPrefs, v prefsFlags) error {
	changed := cmd.Flags().Changed
	var err error
	if changed("kind") {
		if p.Kind, err = model.ParseKind(v.kind); err != nil {
			return err
		}
	}
	if changed("severity") {
		if p.Severities, err = model.ParseSeverities(v.severity); err != nil {
			return err
		}
	}
	if changed("status") {
		if p.Statuses, err = model.ParseStatuses(v.status); err != nil {
			return err
		}
	}
	if changed("search") {
		p.Search = strings.TrimSpace(v.search)
	}
	if changed("sort") {
		key, err := recommend.ParseSortKey(v.sort)
		if err != nil {
			return err
		}
		p.SortBy = string(key)
	}
	if changed("desc") {
		p.SortDesc = v.desc
	}
	return nil
}

func runPrefsList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	views, err := st.ListViews()
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Println("\n  No stored preferences.")
		return nil
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		p, err := st.LoadPrefs(v)
		if err != nil {
			return err
		}
		rows = append(rows, []string{v, describePrefs(p), p.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Stored views",
		Headers: []string{"View", "Preferences", "Updated"},
		Rows:    rows,
	}))
	return nil
}

func runPrefsShow(_ *cobra.Command, args []string) error {
	if err := checkFormat(flagPrefsFormat); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := st.LoadPrefs(args[0])
	if err != nil {
		return err
	}
	if ok, err := writeStructured(flagPrefsFormat, p); ok || err != nil {
		return err
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = string(recommend.SortImpact)
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "View " + args[0],
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Kind", orAny(string(p.Kind))},
			{"Severities", orAny(joinValues(p.Severities))},
			{"Statuses", orAny(joinValues(p.Statuses))},
			{"Search", orAny(p.Search)},
			{"---"},
			{"Sort", sortBy},
			{"Descending", fmt.Sprintf("%v", p.SortDesc)},
			{"Page size", pageSize(p.PageSize)},
			{"---"},
			{"Updated", p.UpdatedAt.Local().Format("2006-01-02 15:04:05")},
		},
	}))
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	view := args[0]
	if !store.ValidView(view) {
		return fmt.Errorf("%w: %q", store.ErrInvalidView, view)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := st.LoadPrefs(view)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err := applyPrefsFlags(cmd, &p, prefsFlags{
		kind:     flagPrefsKind,
		severity: flagPrefsSeverity,
		status:   flagPrefsStatus,
		search:   flagPrefsSearch,
		sort:     flagPrefsSort,
		desc:     flagPrefsDesc,
	}); err != nil {
		return err
	}
	if cmd.Flags().Changed("page-size") {
		p.PageSize = flagPrefsPageSize
	}
	if err := recommend.ValidatePrefs(p); err != nil {
		return err
	}

	saved, err := st.SavePrefs(view, p)
	if err != nil {
		return err
	}
	zap.L().Info("prefs saved", zap.String("view", view))
	fmt.Printf("  Saved %s: %s\n", view, describePrefs(saved))
	return nil
}

func runPrefsReset(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeletePrefs(args[0]); err != nil {
		return err
	}
	zap.L().Info("prefs deleted", zap.String("view", args[0]))
	fmt.Printf("  Reset %s\n", args[0])
	return nil
}

// describePrefs renders p on one line, omitting unset fields.
func describePrefs(p model.ViewPrefs) string {
	var parts []string
	if p.Kind != "" {
		parts = append(parts, "kind="+string(p.Kind))
	}
	if len(p.Severities) > 0 {
		parts = append(parts, "severity="+joinValues(p.Severities))
	}
	if len(p.Statuses) > 0 {
		parts = append(parts, "status="+joinValues(p.Statuses))
	}
	if p.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", p.Search))
	}
	if p.SortBy != "" {
		parts = append(parts, "sort="+p.SortBy)
	}
	if p.SortDesc {
		parts = append(parts, "desc")
	}
	if p.PageSize > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", p.PageSize))
	}
	if len(parts) == 0 {
		return "defaults"
	}
	return strings.Join(parts, " ")
}

func joinValues[T ~string](vs []T) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = string(v)
	}
	return strings.Join(s, ",")
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

func pageSize(n int) string {
	if n <= 0 {
		return "all"
	}
	return fmt.Sprintf("%d", n)
}
