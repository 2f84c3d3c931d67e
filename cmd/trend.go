package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/trend"
)

var (
	flagTrendBaseline float64
	flagTrendImpact   float64
	flagTrendWorst    float64
	flagTrendFormat   string
)

var trendCmd = &cobra.Command{
	Use:   "trend <anomaly-id>",
	Short: "Show the cost trend around an anomaly",
	Long: "Show the look-back window, baseline and forward projections for one anomaly. " +
		"--baseline, --impact and --worst-case replace the anomaly's own values.",
	Args: cobra.ExactArgs(1),
	RunE: runTrend,
}

func init() {
	f := trendCmd.Flags()
	f.Float64Var(&flagTrendBaseline, "baseline", 0, "Daily baseline override")
	f.Float64Var(&flagTrendImpact, "impact", 0, "Monthly impact override (negative = savings)")
	f.Float64Var(&flagTrendWorst, "worst-case", 0, "Worst-case monthly cost override")
	addFormatFlag(trendCmd, &flagTrendFormat)
	rootCmd.AddCommand(trendCmd)
}

type trendOutput struct {
	AnomalyID      string              `json:"anomalyId" yaml:"anomaly_id"`
	Derived        trend.DerivedSeries `json:"derived" yaml:"derived"`
	Axis           []trend.AxisRow     `json:"axis" yaml:"axis"`
	RiskConsistent bool                `json:"riskConsistent" yaml:"risk_consistent"`
}

// trendOptions returns the anomaly's own scalar inputs.
func trendOptions(a model.Anomaly) trend.Options {
	return trend.Options{
		Baseline:         a.Baseline,
		MonthlyImpact:    a.MonthlyImpact,
		WorstCaseMonthly: a.WorstCaseMonthly,
	}
}

// overrideTrendOptions replaces the inputs whose flags were set on cmd.
func overrideTrendOptions(cmd *cobra.Command, opts *trend.Options) error {
	for _, o := range []struct {
		name string
		val  float64
		dst  **float64
	}{
		{"baseline", flagTrendBaseline, &opts.Baseline},
		{"impact", flagTrendImpact, &opts.MonthlyImpact},
		{"worst-case", flagTrendWorst, &opts.WorstCaseMonthly},
	} {
		if !cmd.Flags().Changed(o.name) {
			continue
		}
		if math.IsNaN(o.val) || math.IsInf(o.val, 0) {
			return fmt.Errorf("--%s must be a finite number", o.name)
		}
		v := o.val
		*o.dst = &v
	}
	return nil
}

func runTrend(cmd *cobra.Command, args []string) error {
	if err := checkFormat(flagTrendFormat); err != nil {
		return err
	}
	data, err := loadDataset()
	if err != nil {
		return err
	}
	a, err := data.Anomaly(args[0])
	if err != nil {
		return fmt.Errorf("anomaly %q: %w", args[0], err)
	}

	opts := trendOptions(a)
	if err := overrideTrendOptions(cmd, &opts); err != nil {
		return err
	}
	ds := cfg.TrendBuilder().Build(a.Series, opts)
	rows := trend.Axis(ds)
	consistent := trend.RiskConsistent(ds)

	if ok, err := writeStructured(flagTrendFormat, trendOutput{
		AnomalyID:      a.ID,
		Derived:        ds,
		Axis:           rows,
		RiskConsistent: consistent,
	}); ok || err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s", a.Service, a.DetectedDate)))
	fmt.Println()
	fmt.Printf("  %s  %s  %s\n", cli.SeverityLabel(a.Severity), a.Provider, a.Classification)
	fmt.Printf("  %s\n\n", a.Summary)

	if ds.Empty() {
		fmt.Println("  No cost data for this anomaly.")
		return nil
	}
	fmt.Print(cli.RenderTrendTable("Cost trend", rows))
	fmt.Println()

	summary := [][]string{
		{"Baseline", cli.FormatCost(ds.BaselineValue) + "/day"},
		{"Monthly impact", optionalImpact(opts.MonthlyImpact)},
		{"Worst case", optionalMonthly(opts.WorstCaseMonthly)},
	}
	if a.Baseline == nil && !cmd.Flags().Changed("baseline") {
		summary[0][1] += " (window mean)"
	}
	if d, ok := anchorDelta(ds); ok {
		summary = append(summary, []string{"Anchor vs baseline", d})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Input", "Value"},
		Rows:    summary,
	}))
	if !consistent {
		fmt.Println("\n  Warning: worst case falls below the projected trend.")
	}

	if linked := data.RecommendationsFor(a.ID); len(linked) > 0 {
		fmt.Println("\n  Linked recommendations")
		for _, r := range linked {
			fmt.Printf("    %-28s %-44s %s\n", r.ID, truncate(r.Title, 44), cli.FormatImpact(r.MonthlyImpact))
		}
	}
	return nil
}

// anchorDelta formats the anchor day's cost against the baseline. The anchor
// is the last point of the window.
func anchorDelta(ds trend.DerivedSeries) (string, bool) {
	if len(ds.Window) == 0 {
		return "", false
	}
	last := ds.Window[len(ds.Window)-1]
	if last.DailyCost == nil {
		return "", false
	}
	return cli.FormatDelta(*last.DailyCost, ds.BaselineValue) + "/day", true
}

func optionalMonthly(v *float64) string {
	if v == nil {
		return "-"
	}
	return cli.FormatCost(*v) + "/mo"
}
