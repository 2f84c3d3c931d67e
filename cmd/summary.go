package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/optiview/internal/cli"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/recommend"
)

var flagSummaryFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Savings totals by kind, severity and provider",
	RunE:  runSummary,
}

func init() {
	addFormatFlag(summaryCmd, &flagSummaryFormat)
	rootCmd.Flags().StringVarP(&flagSummaryFormat, "format", "o", formatTable, "Output format: table, json or yaml")
	rootCmd.AddCommand(summaryCmd)
}

type summaryOutput struct {
	AsOf                 time.Time `json:"asOf" yaml:"as_of"`
	Anomalies            int       `json:"anomalies" yaml:"anomalies"`
	model.SavingsSummary `yaml:",inline"`
}

func runSummary(_ *cobra.Command, _ []string) error {
	data, err := loadDataset()
	if err != nil {
		return err
	}

	recs := data.All()
	s := recommend.Summarize(recs)
	anomalies := data.Anomalies()

	if ok, err := writeStructured(flagSummaryFormat, summaryOutput{
		AsOf:           data.AsOf,
		Anomalies:      len(anomalies),
		SavingsSummary: s,
	}); ok || err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("\n  No recommendations.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS  as of " + data.AsOf.Format("2006-01-02")))
	fmt.Println()

	rows := [][]string{
		{"Recommendations", cli.FormatNumber(int64(s.Count))},
		{"Open", cli.RenderProgressBar(s.OpenCount, s.Count, 20)},
		{"---"},
		{"Available savings", cli.FormatImpact(s.MonthlyImpact)},
		{"Annualized", cli.FormatCost(s.MonthlyImpact * 12)},
		{"---"},
	}
	for _, sev := range model.Severities {
		rows = append(rows, []string{"Severity " + cli.SeverityLabel(sev), cli.FormatNumber(int64(s.BySeverity[sev]))})
	}
	rows = append(rows, []string{"---"})
	for _, st := range model.Statuses {
		rows = append(rows, []string{"Status " + string(st), cli.FormatNumber(int64(s.ByStatus[st]))})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	kindRows := make([][]string, 0, 2)
	for _, k := range []model.Kind{model.KindCloud, model.KindSaaS} {
		kt := s.ByKind[k]
		kindRows = append(kindRows, []string{string(k), cli.FormatNumber(int64(kt.Count)), cli.FormatImpact(kt.MonthlyImpact)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Kind",
		Headers: []string{"Kind", "Actionable", "Savings"},
		Rows:    kindRows,
	}))

	if len(s.TopProviders) > 0 {
		fmt.Println()
		fmt.Println("  Top providers")
		maxImpact := math.Abs(s.TopProviders[0].MonthlyImpact)
		for _, p := range s.TopProviders {
			label := fmt.Sprintf("%-14s %10s", p.Provider, cli.FormatImpact(p.MonthlyImpact))
			fmt.Println(cli.RenderHorizontalBar(label, math.Abs(p.MonthlyImpact), maxImpact, 30))
		}
	}

	if len(anomalies) > 0 {
		fmt.Println()
		fmt.Printf("  %d anomalies, newest %s (%s)\n", len(anomalies), anomalies[0].Service, anomalies[0].DetectedDate)
		fmt.Println("  Run `optiview anomalies` for details.")
	}
	return nil
}
