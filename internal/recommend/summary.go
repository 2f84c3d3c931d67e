package recommend

import (
	"sort"

	"github.com/theirongolddev/optiview/internal/model"
)

// topProviders caps SavingsSummary.TopProviders.
const topProviders = 5

// Summarize totals recs. MonthlyImpact sums open and snoozed items only,
// since dismissed and implemented ones no longer represent available savings.
func Summarize(recs []model.Recommendation) model.SavingsSummary {
	s := model.SavingsSummary{
		Count:      len(recs),
		ByKind:     make(map[model.Kind]model.KindTotal),
		BySeverity: make(map[model.Severity]int),
		ByStatus:   make(map[model.Status]int),
	}
	providers := make(map[string]*model.ProviderTotal)

	for _, r := range recs {
		s.ByStatus[r.Status]++
		s.BySeverity[r.Severity]++
		if r.Status == model.StatusOpen {
			s.OpenCount++
		}
		if !actionable(r.Status) {
			continue
		}
		s.MonthlyImpact += r.MonthlyImpact

		kt := s.ByKind[r.Kind]
		kt.Count++
		kt.MonthlyImpact += r.MonthlyImpact
		s.ByKind[r.Kind] = kt

		pt, ok := providers[r.Provider]
		if !ok {
			pt = &model.ProviderTotal{Provider: r.Provider}
			providers[r.Provider] = pt
		}
		pt.Count++
		pt.MonthlyImpact += r.MonthlyImpact
	}

	for _, pt := range providers {
		s.TopProviders = append(s.TopProviders, *pt)
	}
	sort.Slice(s.TopProviders, func(i, j int) bool {
		a, b := s.TopProviders[i], s.TopProviders[j]
		if a.MonthlyImpact != b.MonthlyImpact {
			return a.MonthlyImpact < b.MonthlyImpact
		}
		return a.Provider < b.Provider
	})
	if len(s.TopProviders) > topProviders {
		s.TopProviders = s.TopProviders[:topProviders]
	}
	return s
}

func actionable(s model.Status) bool {
	return s == model.StatusOpen || s == model.StatusSnoozed
}
