// Package recommend filters, sorts and totals recommendations.
package recommend

import (
	"strings"

	"github.com/theirongolddev/optiview/internal/model"
)

// Filter selects recommendations. Zero-valued fields match everything.
type Filter struct {
	Kind       model.Kind
	Severities []model.Severity
	Statuses   []model.Status
	Search     string // case-insensitive substring of id, title, provider, resource or category
	Provider   string // case-insensitive exact match
}

// Match reports whether r passes every set criterion.
func (f Filter) Match(r model.Recommendation) bool {
	if f.Kind != "" && r.Kind != f.Kind {
		return false
	}
	if len(f.Severities) > 0 && !contains(f.Severities, r.Severity) {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
		return false
	}
	if f.Provider != "" && !strings.EqualFold(f.Provider, r.Provider) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(strings.Join([]string{r.ID, r.Title, r.Provider, r.Resource, r.Category}, "\x00"))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// Apply returns the recommendations matching f, preserving order.
func (f Filter) Apply(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(recs))
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Kind == "" && len(f.Severities) == 0 && len(f.Statuses) == 0 &&
		strings.TrimSpace(f.Search) == "" && f.Provider == ""
}

// FilterFromPrefs builds the filter stored in a view's preferences.
func FilterFromPrefs(p model.ViewPrefs) Filter {
	return Filter{
		Kind:       p.Kind,
		Severities: p.Severities,
		Statuses:   p.Statuses,
		Search:     p.Search,
	}
}

// ApplyToPrefs writes the filter back into p, leaving sort and paging alone.
func (f Filter) ApplyToPrefs(p model.ViewPrefs) model.ViewPrefs {
	p.Kind = f.Kind
	p.Severities = f.Severities
	p.Statuses = f.Statuses
	p.Search = f.Search
	return p
}

func contains[T comparable](xs []T, v T) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
