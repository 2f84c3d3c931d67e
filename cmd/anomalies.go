package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/optiview/internal/cli"
)

var flagAnomaliesFormat string

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "List detected cost anomalies",
	RunE:  runAnomalies,
}

func init() {
	addFormatFlag(anomaliesCmd, &flagAnomaliesFormat)
	rootCmd.AddCommand(anomaliesCmd)
}

func runAnomalies(_ *cobra.Command, _ []string) error {
	data, err := loadDataset()
	if err != nil {
		return err
	}
	anomalies := data.Anomalies()

	if ok, err := writeStructured(flagAnomaliesFormat, anomalies); ok || err != nil {
		return err
	}
	if len(anomalies) == 0 {
		fmt.Println("\n  No anomalies detected.")
		return nil
	}

	builder := cfg.TrendBuilder()
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		ds := builder.Build(a.Series, trendOptions(a))
		var spark []float64
		for _, p := range ds.Window {
			if p.DailyCost != nil {
				spark = append(spark, *p.DailyCost)
			}
		}
		rows = append(rows, []string{
			a.ID,
			cli.SeverityLabel(a.Severity),
			a.Service,
			a.Provider,
			a.DetectedDate,
			cli.RenderSparkline(spark),
			cli.FormatCost(ds.BaselineValue),
			optionalImpact(a.MonthlyImpact),
			fmt.Sprintf("%d", len(data.RecommendationsFor(a.ID))),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Anomalies (%d)", len(anomalies)),
		Headers: []string{"ID", "Sev", "Service", "Provider", "Detected", "Window", "Baseline/day", "Impact", "Recs"},
		Rows:    rows,
	}))
	fmt.Println("\n  Run `optiview trend <id>` for the full cost trend.")
	return nil
}

func optionalImpact(v *float64) string {
	if v == nil {
		return "-"
	}
	return cli.FormatImpact(*v)
}
