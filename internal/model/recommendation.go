package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Kind separates cloud infrastructure recommendations from SaaS license ones.
type Kind string

const (
	KindCloud Kind = "cloud"
	KindSaaS  Kind = "saas"
)

// Severity ranks how urgent a recommendation or anomaly is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from least to most urgent.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities; unknown values rank below low.
func (s Severity) Rank() int {
	for i, v := range Severities {
		if v == s {
			return i + 1
		}
	}
	return 0
}

// Status is the triage state of a recommendation.
type Status string

const (
	StatusOpen        Status = "open"
	StatusSnoozed     Status = "snoozed"
	StatusDismissed   Status = "dismissed"
	StatusImplemented Status = "implemented"
)

// Statuses lists every recommendation status.
var Statuses = []Status{StatusOpen, StatusSnoozed, StatusDismissed, StatusImplemented}

// Recommendation is a single cost-optimization suggestion.
// MonthlyImpact is negative for savings.
type Recommendation struct {
	ID            string    `json:"id" yaml:"id"`
	Kind          Kind      `json:"kind" yaml:"kind"`
	Title         string    `json:"title" yaml:"title"`
	Provider      string    `json:"provider" yaml:"provider"`
	Resource      string    `json:"resource" yaml:"resource"`
	Category      string    `json:"category" yaml:"category"`
	Severity      Severity  `json:"severity" yaml:"severity"`
	Status        Status    `json:"status" yaml:"status"`
	MonthlyImpact float64   `json:"monthlyImpact" yaml:"monthly_impact"`
	Effort        string    `json:"effort" yaml:"effort"`
	DetectedAt    time.Time `json:"detectedAt" yaml:"detected_at"`
	AnomalyID     string    `json:"anomalyId,omitempty" yaml:"anomaly_id,omitempty"`

	// SaaS license fields
	Seats       int     `json:"seats,omitempty" yaml:"seats,omitempty"`
	ActiveSeats int     `json:"activeSeats,omitempty" yaml:"active_seats,omitempty"`
	CostPerSeat float64 `json:"costPerSeat,omitempty" yaml:"cost_per_seat,omitempty"`
}

// Utilization returns the active seat share for SaaS recommendations, or 0.
func (r Recommendation) Utilization() float64 {
	if r.Seats <= 0 {
		return 0
	}
	return float64(r.ActiveSeats) / float64(r.Seats)
}

// Anomaly is a hand-classified cost deviation with the series that shows it.
type Anomaly struct {
	ID               string           `json:"id" yaml:"id"`
	Service          string           `json:"service" yaml:"service"`
	Provider         string           `json:"provider" yaml:"provider"`
	Severity         Severity         `json:"severity" yaml:"severity"`
	Classification   string           `json:"classification" yaml:"classification"`
	DetectedDate     string           `json:"detectedDate" yaml:"detected_date"`
	Summary          string           `json:"summary" yaml:"summary"`
	Baseline         *float64         `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	MonthlyImpact    *float64         `json:"monthlyImpact,omitempty" yaml:"monthly_impact,omitempty"`
	WorstCaseMonthly *float64         `json:"worstCaseMonthly,omitempty" yaml:"worst_case_monthly,omitempty"`
	Series           []CostTrendPoint `json:"series" yaml:"series"`
}

// ParseKind validates a kind name. Empty input is allowed and means any.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindCloud, KindSaaS:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q (want cloud or saas)", s)
	}
}

// ParseSeverities parses a comma-separated severity list.
func ParseSeverities(s string) ([]Severity, error) {
	var out []Severity
	for _, part := range splitList(s) {
		v := Severity(part)
		if v.Rank() == 0 {
			return nil, fmt.Errorf("unknown severity %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseStatuses parses a comma-separated status list.
func ParseStatuses(s string) ([]Status, error) {
	var out []Status
	for _, part := range splitList(s) {
		v := Status(part)
		if !slices.Contains(Statuses, v) {
			return nil, fmt.Errorf("unknown status %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
