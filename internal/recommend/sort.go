package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/optiview/internal/model"
)

// SortKey names a recommendation ordering.
type SortKey string

const (
	SortImpact   SortKey = "impact"   // largest savings first
	SortSeverity SortKey = "severity" // most urgent first
	SortDetected SortKey = "detected" // newest first
	SortTitle    SortKey = "title"    // A to Z
	SortProvider SortKey = "provider" // A to Z
)

// SortKeys lists the accepted keys in display order.
var SortKeys = []SortKey{SortImpact, SortSeverity, SortDetected, SortTitle, SortProvider}

// ParseSortKey validates s. An empty string selects SortImpact.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortImpact, nil
	}
	k := SortKey(strings.ToLower(s))
	for _, v := range SortKeys {
		if v == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want one of %v)", s, SortKeys)
}

// Sort orders recs in place by the key's natural order; desc reverses it.
// Ties fall back to ID so output is stable across runs.
func Sort(recs []model.Recommendation, by SortKey, desc bool) {
	less := lessFunc(by)
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if desc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return recs[i].ID < recs[j].ID
	})
}

func lessFunc(by SortKey) func(a, b model.Recommendation) bool {
	switch by {
	case SortSeverity:
		return func(a, b model.Recommendation) bool { return a.Severity.Rank() > b.Severity.Rank() }
	case SortDetected:
		return func(a, b model.Recommendation) bool { return a.DetectedAt.After(b.DetectedAt) }
	case SortTitle:
		return func(a, b model.Recommendation) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortProvider:
		return func(a, b model.Recommendation) bool {
			return strings.ToLower(a.Provider) < strings.ToLower(b.Provider)
		}
	default:
		return func(a, b model.Recommendation) bool { return a.MonthlyImpact < b.MonthlyImpact }
	}
}

// Page returns the 0-based page of size n. n <= 0 returns everything.
func Page(recs []model.Recommendation, page, n int) []model.Recommendation {
	if n <= 0 {
		return recs
	}
	start := page * n
	if start < 0 || start >= len(recs) {
		return nil
	}
	return recs[start:min(start+n, len(recs))]
}
