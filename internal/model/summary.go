package model

import "time"

// SavingsSummary aggregates a set of recommendations.
type SavingsSummary struct {
	Count         int                `json:"count"`
	OpenCount     int                `json:"openCount"`
	MonthlyImpact float64            `json:"monthlyImpact"`
	ByKind        map[Kind]KindTotal `json:"byKind"`
	BySeverity    map[Severity]int   `json:"bySeverity"`
	ByStatus      map[Status]int     `json:"byStatus"`
	TopProviders  []ProviderTotal    `json:"topProviders"`
}

// KindTotal holds the count and impact for one recommendation kind.
type KindTotal struct {
	Count         int     `json:"count"`
	MonthlyImpact float64 `json:"monthlyImpact"`
}

// ProviderTotal holds the summed impact for one provider or vendor.
type ProviderTotal struct {
	Provider      string  `json:"provider"`
	Count         int     `json:"count"`
	MonthlyImpact float64 `json:"monthlyImpact"`
}

// ViewPrefs holds per-view UI preferences persisted between runs.
type ViewPrefs struct {
	SortBy     string     `json:"sortBy,omitempty"`
	SortDesc   bool       `json:"sortDesc,omitempty"`
	Kind       Kind       `json:"kind,omitempty"`
	Severities []Severity `json:"severities,omitempty"`
	Statuses   []Status   `json:"statuses,omitempty"`
	Search     string     `json:"search,omitempty"`
	PageSize   int        `json:"pageSize,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
