package trend

// AxisRow is one slot of the shared date axis.
type AxisRow struct {
	Date           string   `json:"date" yaml:"date"`
	Actual         *float64 `json:"actual" yaml:"actual"`
	Baseline       float64  `json:"baseline" yaml:"baseline"`
	Projection     *float64 `json:"projection,omitempty" yaml:"projection,omitempty"`
	ProjectedTrend *float64 `json:"projectedTrend,omitempty" yaml:"projected_trend,omitempty"`
	WorstCase      *float64 `json:"worstCase,omitempty" yaml:"worst_case,omitempty"`
	Anomaly        bool     `json:"anomaly,omitempty" yaml:"anomaly,omitempty"`
	Style          Style    `json:"style" yaml:"style"`
}

// Forecast is the value a chart draws for a forward slot. The monthly
// impact line wins over an explicit projection on the same date.
func (r AxisRow) Forecast() *float64 {
	if r.ProjectedTrend != nil {
		return r.ProjectedTrend
	}
	return r.Projection
}

// Axis merges the window and forward slots into one ordered axis of length
// len(Window)+len(ForwardProjection).
func Axis(ds DerivedSeries) []AxisRow {
	n := len(ds.Window) + len(ds.ForwardProjection)
	if n == 0 {
		return nil
	}

	projected := index(ds.ProjectedTrend)
	worst := index(ds.WorstCase)

	rows := make([]AxisRow, 0, n)
	for _, p := range ds.Window {
		rows = append(rows, AxisRow{
			Date:     p.Date,
			Actual:   p.DailyCost,
			Baseline: ds.BaselineValue,
			Anomaly:  p.IsAnomaly,
			Style:    ClassifyPtr(p.DailyCost, ds.BaselineValue),
		})
	}
	for _, p := range ds.ForwardProjection {
		id := KeyOf(p.Date).ID()
		rows = append(rows, AxisRow{
			Date:           p.Date,
			Baseline:       ds.BaselineValue,
			Projection:     p.Projection,
			ProjectedTrend: projected[id],
			WorstCase:      worst[id],
			Style:          StyleNeutral,
		})
	}
	return rows
}

// RiskConsistent reports whether every worst-case value is at least the
// projected value on the same date. Series with nothing to compare are consistent.
func RiskConsistent(ds DerivedSeries) bool {
	projected := index(ds.ProjectedTrend)
	for _, w := range ds.WorstCase {
		p, ok := projected[keyID(w)]
		if ok && w.Value < *p {
			return false
		}
	}
	return true
}

func index(points []SeriesPoint) map[string]*float64 {
	if len(points) == 0 {
		return nil
	}
	m := make(map[string]*float64, len(points))
	for i := range points {
		v := points[i].Value
		m[keyID(points[i])] = &v
	}
	return m
}

func keyID(p SeriesPoint) string {
	if p.Key == (DateKey{}) {
		return KeyOf(p.Date).ID()
	}
	return p.Key.ID()
}
