package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointKinds(t *testing.T) {
	a := Actual("d1", 10)
	p := Projected("d2", 20)
	gap := CostTrendPoint{Date: "d3"}
	both := CostTrendPoint{Date: "d4", DailyCost: Float(1), Projection: Float(2)}

	assert.True(t, a.IsActual())
	assert.False(t, a.IsProjectionEligible())
	assert.True(t, p.IsProjectionEligible())
	assert.False(t, p.IsActual())
	assert.False(t, gap.IsActual() || gap.IsProjectionEligible())
	assert.True(t, both.IsActual())
	assert.False(t, both.IsProjectionEligible())
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityCritical.Rank())
	assert.Zero(t, Severity("meh").Rank())
}

func TestParsers(t *testing.T) {
	k, err := ParseKind(" SaaS ")
	require.NoError(t, err)
	assert.Equal(t, KindSaaS, k)
	_, err = ParseKind("onprem")
	assert.Error(t, err)

	sev, err := ParseSeverities("high, critical,,")
	require.NoError(t, err)
	assert.Equal(t, []Severity{SeverityHigh, SeverityCritical}, sev)
	_, err = ParseSeverities("urgent")
	assert.Error(t, err)

	st, err := ParseStatuses("")
	require.NoError(t, err)
	assert.Nil(t, st)
	_, err = ParseStatuses("open,closed")
	assert.Error(t, err)
}

func TestUtilization(t *testing.T) {
	assert.Equal(t, 0.25, Recommendation{Seats: 40, ActiveSeats: 10}.Utilization())
	assert.Zero(t, Recommendation{}.Utilization())
}
