// Package catalog assembles the dataset served by the CLI, TUI and API:
// hand-authored cloud recommendations and anomalies plus generated SaaS
// license recommendations.
package catalog

import (
	"errors"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/synth"
)

// ErrNotFound is returned by lookups for unknown IDs.
var ErrNotFound = errors.New("not found")

// Options controls dataset assembly.
type Options struct {
	AsOf      time.Time // reference "today"; zero means now
	SaaSCount int
}

// Dataset is immutable once built and safe to share between goroutines.
type Dataset struct {
	AsOf time.Time

	recs      []model.Recommendation
	anomalies []model.Anomaly
	recByID   map[string]int
	anomByID  map[string]int
}

// Build composes the static catalog with generated data. The generator is
// consumed; pass a fresh one for reproducible output.
func Build(gen *synth.Generator, opts Options) *Dataset {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = asOf.UTC().Truncate(24 * time.Hour)

	ds := &Dataset{AsOf: asOf}
	for _, a := range staticAnomalies {
		ds.anomalies = append(ds.anomalies, a.build(gen, asOf))
	}
	for _, r := range staticRecommendations {
		ds.recs = append(ds.recs, r.build(asOf))
	}
	ds.recs = append(ds.recs, gen.SaaSRecommendations(opts.SaaSCount, asOf)...)

	sort.SliceStable(ds.anomalies, func(i, j int) bool {
		return ds.anomalies[i].DetectedDate > ds.anomalies[j].DetectedDate
	})

	ds.recByID = make(map[string]int, len(ds.recs))
	for i, r := range ds.recs {
		ds.recByID[r.ID] = i
	}
	ds.anomByID = make(map[string]int, len(ds.anomalies))
	for i, a := range ds.anomalies {
		ds.anomByID[a.ID] = i
	}
	return ds
}

// All returns a copy of every recommendation.
func (d *Dataset) All() []model.Recommendation {
	out := make([]model.Recommendation, len(d.recs))
	copy(out, d.recs)
	return out
}

// Anomalies returns a copy of every anomaly, newest first.
func (d *Dataset) Anomalies() []model.Anomaly {
	out := make([]model.Anomaly, len(d.anomalies))
	copy(out, d.anomalies)
	return out
}

// Recommendation looks up a recommendation by ID.
func (d *Dataset) Recommendation(id string) (model.Recommendation, error) {
	i, ok := d.recByID[id]
	if !ok {
		return model.Recommendation{}, eris.Wrapf(ErrNotFound, "recommendation %q", id)
	}
	return d.recs[i], nil
}

// Anomaly looks up an anomaly by ID. The returned series is shared; callers
// must not modify it.
func (d *Dataset) Anomaly(id string) (model.Anomaly, error) {
	i, ok := d.anomByID[id]
	if !ok {
		return model.Anomaly{}, eris.Wrapf(ErrNotFound, "anomaly %q", id)
	}
	return d.anomalies[i], nil
}

// RecommendationsFor returns the recommendations linked to an anomaly.
func (d *Dataset) RecommendationsFor(anomalyID string) []model.Recommendation {
	var out []model.Recommendation
	for _, r := range d.recs {
		if r.AnomalyID == anomalyID {
			out = append(out, r)
		}
	}
	return out
}
