package synth

import (
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/optiview/internal/model"
)

type plan struct {
	name        string
	costPerSeat float64
}

type vendor struct {
	name     string
	category string // tool category, used to spot duplicates
	plans    []plan // cheapest first
}

var vendors = []vendor{
	{"Slack", "chat", []plan{{"Pro", 8.75}, {"Business+", 15}, {"Enterprise Grid", 32}}},
	{"Microsoft Teams", "chat", []plan{{"Essentials", 4}, {"Business Standard", 12.5}}},
	{"Zoom", "video", []plan{{"Pro", 15.99}, {"Business", 21.99}}},
	{"Google Meet", "video", []plan{{"Workspace Starter", 7}, {"Workspace Business", 14}}},
	{"GitHub", "source", []plan{{"Team", 4}, {"Enterprise", 21}}},
	{"GitLab", "source", []plan{{"Premium", 29}, {"Ultimate", 99}}},
	{"Atlassian Jira", "tracker", []plan{{"Standard", 8.15}, {"Premium", 16}}},
	{"Linear", "tracker", []plan{{"Standard", 8}, {"Plus", 14}}},
	{"Figma", "design", []plan{{"Professional", 15}, {"Organization", 45}}},
	{"Notion", "docs", []plan{{"Plus", 10}, {"Business", 15}}},
	{"Confluence", "docs", []plan{{"Standard", 6.05}, {"Premium", 11.55}}},
	{"Datadog", "observability", []plan{{"Pro", 15}, {"Enterprise", 23}}},
	{"Salesforce", "crm", []plan{{"Professional", 80}, {"Enterprise", 165}}},
	{"HubSpot", "crm", []plan{{"Starter", 20}, {"Professional", 100}}},
	{"1Password", "secrets", []plan{{"Teams", 4}, {"Business", 8}}},
	{"Adobe Creative Cloud", "design", []plan{{"Single App", 37.99}, {"All Apps", 89.99}}},
}

// SaaSRecommendations returns n license recommendations detected on or
// before asOf. Impacts are negative (savings).
func (g *Generator) SaaSRecommendations(n int, asOf time.Time) []model.Recommendation {
	out := make([]model.Recommendation, 0, max(0, n))
	for i := 0; i < n; i++ {
		v := vendors[g.Intn(len(vendors))]
		pi := g.Intn(len(v.plans))
		p := v.plans[pi]

		seats := 10 + g.Intn(490)
		active := int(float64(seats) * g.Float(0.35, 0.98))

		rec := model.Recommendation{
			ID:          g.UUID(),
			Kind:        model.KindSaaS,
			Provider:    v.name,
			Resource:    fmt.Sprintf("%s %s", v.name, p.name),
			Status:      g.status(),
			Effort:      "low",
			DetectedAt:  asOf.Add(-time.Duration(g.Intn(60*24)) * time.Hour).UTC().Truncate(time.Hour),
			Seats:       seats,
			ActiveSeats: active,
			CostPerSeat: p.costPerSeat,
		}

		switch {
		case pi > 0 && g.Intn(3) == 0:
			lower := v.plans[pi-1]
			rec.Category = "tier-downgrade"
			rec.Title = fmt.Sprintf("Downgrade %s from %s to %s", v.name, p.name, lower.name)
			rec.MonthlyImpact = -cents(float64(seats) * (p.costPerSeat - lower.costPerSeat))
			rec.Effort = "medium"
		case g.Intn(5) == 0:
			rec.Category = "duplicate-tool"
			rec.Title = fmt.Sprintf("Consolidate %s tooling onto one vendor (retire %s)", v.category, v.name)
			rec.MonthlyImpact = -cents(float64(seats) * p.costPerSeat)
			rec.Effort = "high"
		default:
			rec.Category = "license-reclaim"
			rec.Title = fmt.Sprintf("Reclaim %d unused %s seats", seats-active, v.name)
			rec.MonthlyImpact = -cents(float64(seats-active) * p.costPerSeat)
		}
		rec.Severity = severityFor(rec.MonthlyImpact)
		out = append(out, rec)
	}
	return out
}

func (g *Generator) status() model.Status {
	// Mostly open, as in a live triage queue.
	switch r := g.Intn(10); {
	case r < 6:
		return model.StatusOpen
	case r < 8:
		return model.StatusSnoozed
	case r < 9:
		return model.StatusDismissed
	default:
		return model.StatusImplemented
	}
}

func severityFor(impact float64) model.Severity {
	switch a := math.Abs(impact); {
	case a >= 5000:
		return model.SeverityCritical
	case a >= 1500:
		return model.SeverityHigh
	case a >= 300:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
