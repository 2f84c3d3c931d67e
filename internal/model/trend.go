// Package model defines domain types for optiview recommendations, anomalies and cost series.
package model

// CostTrendPoint is one day of a cost series. A point is actual when
// DailyCost is set, and projection-eligible when only Projection is set.
type CostTrendPoint struct {
	Date       string   `json:"date" yaml:"date"`
	DailyCost  *float64 `json:"dailyCost,omitempty" yaml:"daily_cost,omitempty"`
	IsAnomaly  bool     `json:"isAnomaly,omitempty" yaml:"is_anomaly,omitempty"`
	Projection *float64 `json:"projection,omitempty" yaml:"projection,omitempty"`
}

// IsActual reports whether the point carries an observed daily cost.
func (p CostTrendPoint) IsActual() bool {
	return p.DailyCost != nil
}

// IsProjectionEligible reports whether the point is a forecast-only slot.
func (p CostTrendPoint) IsProjectionEligible() bool {
	return p.Projection != nil && p.DailyCost == nil
}

// Actual returns an actual point for date with the given cost.
func Actual(date string, cost float64) CostTrendPoint {
	return CostTrendPoint{Date: date, DailyCost: Float(cost)}
}

// Projected returns a projection-eligible point for date.
func Projected(date string, value float64) CostTrendPoint {
	return CostTrendPoint{Date: date, Projection: Float(value)}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
