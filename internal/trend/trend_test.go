package trend

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/optiview/internal/model"
)

func actualSeries(n int) []model.CostTrendPoint {
	out := make([]model.CostTrendPoint, n)
	for i := range out {
		out[i] = model.Actual(fmt.Sprintf("2025-03-%02d", i+1), float64(100+i))
	}
	return out
}

func dates(points []model.CostTrendPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Date
	}
	return out
}

func TestBuild_NoAnomalyAnchorsOnLastActual(t *testing.T) {
	for _, n := range []int{1, 3, 8, 12} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			series := actualSeries(n)
			ds := BuildWindow(series, nil, nil, nil)

			require.Len(t, ds.Window, min(8, n))
			assert.Equal(t, series[n-1].Date, ds.Window[len(ds.Window)-1].Date)
		})
	}
}

func TestBuild_AnomalyIsAnchorRegardlessOfPosition(t *testing.T) {
	series := actualSeries(15)
	series[10].IsAnomaly = true

	ds := BuildWindow(series, nil, nil, nil)

	require.Len(t, ds.Window, 8)
	assert.Equal(t, "2025-03-11", ds.Window[7].Date)
	assert.Equal(t, "2025-03-04", ds.Window[0].Date)
}

func TestBuild_AnomalyNearStartIsClipped(t *testing.T) {
	series := actualSeries(10)
	series[2].IsAnomaly = true

	ds := BuildWindow(series, nil, nil, nil)

	assert.Equal(t, []string{"2025-03-01", "2025-03-02", "2025-03-03"}, dates(ds.Window))
}

func TestBuild_FirstAnomalyWins(t *testing.T) {
	series := actualSeries(10)
	series[4].IsAnomaly = true
	series[8].IsAnomaly = true

	ds := BuildWindow(series, nil, nil, nil)

	assert.Equal(t, "2025-03-05", ds.Window[len(ds.Window)-1].Date)
}

func TestBuild_ForwardProjectionLength(t *testing.T) {
	for _, n := range []int{0, 3, 7, 11} {
		series := actualSeries(4)
		for i := 0; i < n; i++ {
			series = append(series, model.Projected(fmt.Sprintf("2025-04-%02d", i+1), 300))
		}
		ds := BuildWindow(series, nil, nil, nil)
		assert.Len(t, ds.ForwardProjection, min(7, n), "n=%d", n)
	}
}

func TestBuild_ForwardProjectionIsPositional(t *testing.T) {
	series := []model.CostTrendPoint{
		model.Projected("2025-01-01", 10),
		model.Actual("2025-02-01", 100),
		{Date: "2025-02-02", DailyCost: model.Float(120), Projection: model.Float(999)},
		model.Projected("2025-02-10", 130),
		{Date: "gap"},
	}

	ds := BuildWindow(series, nil, nil, nil)

	assert.Equal(t, []string{"2025-02-01", "2025-02-02"}, dates(ds.Window))
	assert.Equal(t, []string{"2025-01-01", "2025-02-10"}, dates(ds.ForwardProjection))
}

func TestBuild_BaselineOverrideIsExact(t *testing.T) {
	series := actualSeries(5)
	for _, v := range []float64{-42.5, 0, 150, 1e9} {
		ds := BuildWindow(series, model.Float(v), nil, nil)
		assert.Equal(t, v, ds.BaselineValue)
	}
}

func TestBuild_BaselineMeanSkipsAnomalies(t *testing.T) {
	series := []model.CostTrendPoint{
		model.Actual("d1", 100),
		model.Actual("d2", 200),
		{Date: "d3", DailyCost: model.Float(900), IsAnomaly: true},
	}

	ds := BuildWindow(series, nil, nil, nil)

	assert.InDelta(t, 150, ds.BaselineValue, 1e-9)
}

func TestBuild_BaselineFallback(t *testing.T) {
	onlyAnomaly := []model.CostTrendPoint{{Date: "d1", DailyCost: model.Float(500), IsAnomaly: true}}

	ds := BuildWindow(onlyAnomaly, nil, nil, nil)
	assert.Equal(t, DefaultFallbackBaseline, ds.BaselineValue)

	b := NewBuilder()
	b.FallbackBaseline = 42
	assert.Equal(t, 42.0, b.Build(onlyAnomaly, Options{}).BaselineValue)
}

func TestBuild_NonFiniteOverridesAreAbsent(t *testing.T) {
	series := append(actualSeries(2), model.Projected("2025-04-01", 1))

	ds := BuildWindow(series, model.Float(math.NaN()), model.Float(math.Inf(1)), model.Float(math.NaN()))

	assert.InDelta(t, 100.5, ds.BaselineValue, 1e-9)
	assert.Nil(t, ds.ProjectedTrend)
	assert.Nil(t, ds.WorstCase)
}

func TestBuild_ZeroImpactEqualsBaseline(t *testing.T) {
	series := append(actualSeries(6),
		model.Projected("2025-04-01", 1),
		model.Projected("2025-04-02", 1),
	)
	for _, baseline := range []float64{0.1, 3.3, 150, 1234.5678} {
		ds := BuildWindow(series, model.Float(baseline), model.Float(0), nil)
		require.Len(t, ds.ProjectedTrend, 2)
		for _, p := range ds.ProjectedTrend {
			assert.Equal(t, ds.BaselineValue, p.Value)
		}
	}
}

func TestBuild_WorstCaseRoundTrip(t *testing.T) {
	series := append(actualSeries(3), model.Projected("2025-04-01", 1), model.Projected("2025-04-02", 1))

	ds := BuildWindow(series, model.Float(150), nil, model.Float(150*30))

	require.Len(t, ds.WorstCase, 2)
	for _, p := range ds.WorstCase {
		assert.Equal(t, 150.0, p.Value)
	}
}

func TestBuild_ConcreteScenario(t *testing.T) {
	series := []model.CostTrendPoint{
		model.Actual("d1", 100),
		{Date: "d2", DailyCost: model.Float(200), IsAnomaly: true},
		model.Projected("d3", 250),
		model.Projected("d4", 260),
	}

	ds := BuildWindow(series, model.Float(150), model.Float(300), nil)

	assert.Equal(t, []string{"d1", "d2"}, dates(ds.Window))
	assert.Equal(t, []string{"d3", "d4"}, dates(ds.ForwardProjection))
	assert.Equal(t, 150.0, ds.BaselineValue)
	require.Len(t, ds.ProjectedTrend, 2)
	assert.Equal(t, "d3", ds.ProjectedTrend[0].Date)
	assert.Equal(t, 160.0, ds.ProjectedTrend[0].Value)
	assert.Equal(t, "d4", ds.ProjectedTrend[1].Date)
	assert.Equal(t, 160.0, ds.ProjectedTrend[1].Value)
	assert.Nil(t, ds.WorstCase)
}

func TestBuild_EmptySeries(t *testing.T) {
	ds := BuildWindow(nil, nil, model.Float(100), model.Float(200))

	assert.Empty(t, ds.Window)
	assert.Empty(t, ds.ForwardProjection)
	assert.Equal(t, DefaultFallbackBaseline, ds.BaselineValue)
	assert.Nil(t, ds.ProjectedTrend)
	assert.Nil(t, ds.WorstCase)
	assert.True(t, ds.Empty())
}

func TestBuild_OnlyProjections(t *testing.T) {
	series := []model.CostTrendPoint{model.Projected("d1", 10), model.Projected("d2", 20)}

	ds := BuildWindow(series, nil, nil, nil)

	assert.Empty(t, ds.Window)
	assert.Len(t, ds.ForwardProjection, 2)
	assert.Equal(t, DefaultFallbackBaseline, ds.BaselineValue)
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	series := actualSeries(3)
	ds := BuildWindow(series, nil, nil, nil)

	ds.Window[0].Date = "changed"

	assert.Equal(t, "2025-03-01", series[0].Date)
}

func TestBuild_CustomWindowSize(t *testing.T) {
	b := Builder{FallbackBaseline: 1, LookBack: 2, LookAhead: 1}
	series := append(actualSeries(6), model.Projected("p1", 1), model.Projected("p2", 2))

	ds := b.Build(series, Options{})

	assert.Equal(t, []string{"2025-03-04", "2025-03-05", "2025-03-06"}, dates(ds.Window))
	assert.Equal(t, []string{"p1"}, dates(ds.ForwardProjection))
}

func TestAnchorIndex(t *testing.T) {
	assert.Equal(t, -1, AnchorIndex(nil))
	series := actualSeries(4)
	assert.Equal(t, 3, AnchorIndex(series))
	series[1].IsAnomaly = true
	assert.Equal(t, 1, AnchorIndex(series))
}
