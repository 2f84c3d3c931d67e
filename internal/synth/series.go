package synth

import (
	"time"

	"github.com/theirongolddev/optiview/internal/model"
)

// SeriesOptions describes a synthetic daily cost series.
type SeriesOptions struct {
	Start    time.Time // first day; truncated to UTC midnight
	Days     int       // number of actual points
	Baseline float64   // typical daily cost
	Noise    float64   // relative jitter, e.g. 0.08 for ±8%

	// AnomalyOffset is the index of the first anomalous day, or -1 for none.
	// Days from the offset onward are multiplied by SpikeFactor.
	AnomalyOffset int
	SpikeFactor   float64

	// ProjectionDays projection-eligible points follow the actuals. Each
	// grows by ProjectionGrowth (relative, per day) from the last actual.
	ProjectionDays   int
	ProjectionGrowth float64
}

// CostSeries builds a series of actual points followed by projections.
func (g *Generator) CostSeries(opts SeriesOptions) []model.CostTrendPoint {
	start := opts.Start.UTC().Truncate(24 * time.Hour)
	factor := opts.SpikeFactor
	if factor <= 0 {
		factor = 1
	}

	out := make([]model.CostTrendPoint, 0, max(0, opts.Days)+max(0, opts.ProjectionDays))
	last := opts.Baseline
	for i := 0; i < opts.Days; i++ {
		v := opts.Baseline * (1 + g.Float(-opts.Noise, opts.Noise))
		anomalous := opts.AnomalyOffset >= 0 && i >= opts.AnomalyOffset
		if anomalous {
			v *= factor
		}
		v = cents(v)
		last = v
		out = append(out, model.CostTrendPoint{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			DailyCost: model.Float(v),
			IsAnomaly: opts.AnomalyOffset >= 0 && i == opts.AnomalyOffset,
		})
	}

	for i := 0; i < opts.ProjectionDays; i++ {
		last = cents(last * (1 + opts.ProjectionGrowth))
		out = append(out, model.Projected(start.AddDate(0, 0, opts.Days+i).Format("2006-01-02"), last))
	}
	return out
}
