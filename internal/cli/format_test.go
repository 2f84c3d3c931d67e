package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCost(t *testing.T) {
	tests := map[float64]string{
		0:        "$0.00",
		4.5:      "$4.50",
		42.129:   "$42.13",
		250.4:    "$250",
		1234.5:   "$1,235",
		-42.1:    "-$42.10",
		-98765.4: "-$98,765",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCost(in), "FormatCost(%v)", in)
	}
}

func TestFormatImpact(t *testing.T) {
	assert.Equal(t, "-$1.2K/mo", FormatImpact(-1234))
	assert.Equal(t, "+$300/mo", FormatImpact(300))
	assert.Equal(t, "-$2.5M/mo", FormatImpact(-2_500_000))
	assert.Equal(t, "-$12.50/mo", FormatImpact(-12.5))
	assert.Equal(t, "$0/mo", FormatImpact(0))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
	assert.Equal(t, "999", FormatNumber(999))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+$50.00", FormatDelta(150, 100))
	assert.Equal(t, "-$50.00", FormatDelta(100, 150))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "42.5%", FormatPercent(0.425))
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 days ago", FormatAgo(now.AddDate(0, 0, -3), now))
	assert.Equal(t, "-", FormatAgo(time.Time{}, now))
}

func TestFormatOptional(t *testing.T) {
	v := 12.0
	assert.Equal(t, "$12.00", FormatOptional(&v))
	assert.Equal(t, "-", FormatOptional(nil))
}
