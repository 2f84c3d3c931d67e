package trend

import "math"

// Style is the fill variant for an actual-cost point.
type Style int

const (
	StyleNeutral Style = iota
	StyleAbove
	StyleBelow
)

// String returns the tag sent to renderers.
func (s Style) String() string {
	switch s {
	case StyleAbove:
		return "above"
	case StyleBelow:
		return "below"
	default:
		return "neutral"
	}
}

// MarshalText encodes the style as its tag.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classify compares one value against the baseline. Equal or non-finite
// inputs are neutral.
func Classify(value, baseline float64) Style {
	if math.IsNaN(value) || math.IsInf(value, 0) || math.IsNaN(baseline) || math.IsInf(baseline, 0) {
		return StyleNeutral
	}
	switch {
	case value > baseline:
		return StyleAbove
	case value < baseline:
		return StyleBelow
	default:
		return StyleNeutral
	}
}

// ClassifyPtr is Classify for an optional value; nil is neutral.
func ClassifyPtr(value *float64, baseline float64) Style {
	if value == nil {
		return StyleNeutral
	}
	return Classify(*value, baseline)
}
