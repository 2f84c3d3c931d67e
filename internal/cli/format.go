// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatCompact formats a magnitude with K/M/B suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M"
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	case abs >= 100:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatCost formats a signed USD value.
// e.g., 1234.5 -> "$1,235", -42.1 -> "-$42.10"
func FormatCost(cost float64) string {
	if cost < 0 {
		return "-" + FormatCost(-cost)
	}
	if cost >= 1000 {
		return "$" + FormatNumber(int64(math.Round(cost)))
	}
	if cost >= 100 {
		return fmt.Sprintf("$%.0f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatImpact formats a monthly impact compactly. Savings are negative.
// e.g., -1234 -> "-$1.2K/mo", 300 -> "+$300/mo"
func FormatImpact(impact float64) string {
	switch {
	case impact < 0:
		return "-$" + FormatCompact(-impact) + "/mo"
	case impact > 0:
		return "+$" + FormatCompact(impact) + "/mo"
	default:
		return "$0/mo"
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the signed difference between two costs.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCost(delta)
	}
	return FormatCost(delta)
}

// FormatAgo formats t relative to now, e.g. "3 days ago".
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatOptional formats a possibly absent cost.
func FormatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatCost(*v)
}
