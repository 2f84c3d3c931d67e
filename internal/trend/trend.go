// Package trend turns a raw daily cost series into the windowed, baseline and
// projection series a cost-trend chart draws.
package trend

import (
	"math"

	"github.com/theirongolddev/optiview/internal/model"
)

// DefaultFallbackBaseline is used when no override is given and the window
// has no non-anomalous actual points. It is a placeholder, not a derived value.
const DefaultFallbackBaseline = 3200.0

// DaysPerMonth converts monthly figures to daily rates.
const DaysPerMonth = 30.0

const (
	defaultLookBack  = 7
	defaultLookAhead = 7
)

// Options carries the optional scalar inputs of a build.
// Nil or non-finite values are treated as absent.
type Options struct {
	Baseline         *float64
	MonthlyImpact    *float64
	WorstCaseMonthly *float64
}

// SeriesPoint is one value of a flat forward series, keyed by date.
type SeriesPoint struct {
	Date  string  `json:"date" yaml:"date"`
	Key   DateKey `json:"-" yaml:"-"`
	Value float64 `json:"value" yaml:"value"`
}

// DerivedSeries is the render-ready result of a build.
type DerivedSeries struct {
	Window            []model.CostTrendPoint `json:"window" yaml:"window"`
	ForwardProjection []model.CostTrendPoint `json:"forwardProjection" yaml:"forward_projection"`
	BaselineValue     float64                `json:"baselineValue" yaml:"baseline_value"`
	ProjectedTrend    []SeriesPoint          `json:"projectedTrendSeries,omitempty" yaml:"projected_trend_series,omitempty"`
	WorstCase         []SeriesPoint          `json:"worstCaseSeries,omitempty" yaml:"worst_case_series,omitempty"`
}

// Empty reports whether there is nothing to draw.
func (d DerivedSeries) Empty() bool {
	return len(d.Window) == 0 && len(d.ForwardProjection) == 0
}

// Builder holds the sizing and fallback parameters of the window.
// The zero value is not useful; use NewBuilder.
type Builder struct {
	FallbackBaseline float64
	LookBack         int // points kept before the anchor
	LookAhead        int // projection points kept after the actuals
}

// NewBuilder returns a builder with the default 7-back / 7-ahead window.
func NewBuilder() Builder {
	return Builder{
		FallbackBaseline: DefaultFallbackBaseline,
		LookBack:         defaultLookBack,
		LookAhead:        defaultLookAhead,
	}
}

// BuildWindow builds with the default builder. Any of the scalar arguments may be nil.
func BuildWindow(series []model.CostTrendPoint, baseline, monthlyImpact, worstCaseMonthly *float64) DerivedSeries {
	return NewBuilder().Build(series, Options{
		Baseline:         baseline,
		MonthlyImpact:    monthlyImpact,
		WorstCaseMonthly: worstCaseMonthly,
	})
}

// Build derives the chart series for one cost series. It never fails:
// degenerate input yields empty slices and the fallback baseline.
func (b Builder) Build(series []model.CostTrendPoint, opts Options) DerivedSeries {
	actual, eligible := partition(series)

	var out DerivedSeries
	out.Window = b.window(actual)
	out.ForwardProjection = head(eligible, b.LookAhead)
	out.BaselineValue = b.baseline(out.Window, opts.Baseline)

	if impact, ok := finite(opts.MonthlyImpact); ok {
		// Same as (baseline*30 + impact) / 30, but exact when impact is 0.
		daily := out.BaselineValue + impact/DaysPerMonth
		out.ProjectedTrend = flat(out.ForwardProjection, daily)
	}
	if worst, ok := finite(opts.WorstCaseMonthly); ok {
		out.WorstCase = flat(out.ForwardProjection, worst/DaysPerMonth)
	}

	return out
}

func partition(series []model.CostTrendPoint) (actual, eligible []model.CostTrendPoint) {
	for _, p := range series {
		switch {
		case p.IsActual():
			actual = append(actual, p)
		case p.IsProjectionEligible():
			eligible = append(eligible, p)
		}
	}
	return actual, eligible
}

// AnchorIndex returns the index in actual of the first anomaly, or the last
// index when none is flagged. It returns -1 for an empty slice.
func AnchorIndex(actual []model.CostTrendPoint) int {
	for i, p := range actual {
		if p.IsAnomaly {
			return i
		}
	}
	return len(actual) - 1
}

func (b Builder) window(actual []model.CostTrendPoint) []model.CostTrendPoint {
	anchor := AnchorIndex(actual)
	if anchor < 0 {
		return nil
	}
	start := max(0, anchor-max(0, b.LookBack))
	return clone(actual[start : anchor+1])
}

func (b Builder) baseline(window []model.CostTrendPoint, override *float64) float64 {
	if v, ok := finite(override); ok {
		return v
	}

	var sum float64
	n := 0
	for _, p := range window {
		if p.IsAnomaly {
			continue
		}
		if v, ok := finite(p.DailyCost); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return b.FallbackBaseline
	}
	return sum / float64(n)
}

func flat(dates []model.CostTrendPoint, value float64) []SeriesPoint {
	if len(dates) == 0 {
		return nil
	}
	out := make([]SeriesPoint, len(dates))
	for i, p := range dates {
		out[i] = SeriesPoint{Date: p.Date, Key: KeyOf(p.Date), Value: value}
	}
	return out
}

func head(points []model.CostTrendPoint, n int) []model.CostTrendPoint {
	if n <= 0 || len(points) == 0 {
		return nil
	}
	return clone(points[:min(n, len(points))])
}

func clone(points []model.CostTrendPoint) []model.CostTrendPoint {
	out := make([]model.CostTrendPoint, len(points))
	copy(out, points)
	return out
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}
