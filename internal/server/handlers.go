package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/theirongolddev/optiview/internal/catalog"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/recommend"
	"github.com/theirongolddev/optiview/internal/store"
	"github.com/theirongolddev/optiview/internal/trend"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return eris.Wrap(errBadRequest, fmt.Sprintf(format, args...))
}

type summaryResponse struct {
	AsOf      time.Time `json:"asOf"`
	Anomalies int       `json:"anomalies"`
	model.SavingsSummary
}

type listResponse struct {
	Total int                    `json:"total"`
	Items []model.Recommendation `json:"items"`
}

type trendResponse struct {
	AnomalyID      string              `json:"anomalyId"`
	Derived        trend.DerivedSeries `json:"derived"`
	Axis           []trend.AxisRow     `json:"axis"`
	RiskConsistent bool                `json:"riskConsistent"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, summaryResponse{
		AsOf:           s.data.AsOf,
		Anomalies:      len(s.data.Anomalies()),
		SavingsSummary: recommend.Summarize(s.data.All()),
	})
}

func (s *Service) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var prefs model.ViewPrefs
	if view := q.Get("view"); view != "" {
		p, err := s.prefs.LoadPrefs(view)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.writeError(w, err)
			return
		}
		prefs = p
	}

	f := recommend.FilterFromPrefs(prefs)
	var err error
	if q.Has("kind") {
		if f.Kind, err = model.ParseKind(q.Get("kind")); err != nil {
			s.writeError(w, badRequest("%v", err))
			return
		}
	}
	if q.Has("severity") {
		if f.Severities, err = model.ParseSeverities(strings.Join(q["severity"], ",")); err != nil {
			s.writeError(w, badRequest("%v", err))
			return
		}
	}
	if q.Has("status") {
		if f.Statuses, err = model.ParseStatuses(strings.Join(q["status"], ",")); err != nil {
			s.writeError(w, badRequest("%v", err))
			return
		}
	}
	if q.Has("q") {
		f.Search = q.Get("q")
	}
	f.Provider = q.Get("provider")

	sortBy := prefs.SortBy
	if q.Has("sort") {
		sortBy = q.Get("sort")
	}
	key, err := recommend.ParseSortKey(sortBy)
	if err != nil {
		s.writeError(w, badRequest("%v", err))
		return
	}
	desc := prefs.SortDesc
	if v := q.Get("desc"); v != "" {
		if desc, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, badRequest("desc: %v", err))
			return
		}
	}

	recs := f.Apply(s.data.All())
	recommend.Sort(recs, key, desc)
	total := len(recs)

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			s.writeError(w, badRequest("offset must be a non-negative integer"))
			return
		}
		recs = recs[min(offset, len(recs)):]
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.writeError(w, badRequest("limit must be a non-negative integer"))
			return
		}
		recs = recs[:min(limit, len(recs))]
	}

	writeJSON(w, http.StatusOK, listResponse{Total: total, Items: recs})
}

func (s *Service) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := s.data.Recommendation(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Service) handleAnomalies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.data.Anomalies())
}

func (s *Service) handleAnomaly(w http.ResponseWriter, r *http.Request) {
	a, err := s.data.Anomaly(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Service) handleTrend(w http.ResponseWriter, r *http.Request) {
	a, err := s.data.Anomaly(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := trend.Options{
		Baseline:         a.Baseline,
		MonthlyImpact:    a.MonthlyImpact,
		WorstCaseMonthly: a.WorstCaseMonthly,
	}
	q := r.URL.Query()
	for _, o := range []struct {
		name string
		dst  **float64
	}{
		{"baseline", &opts.Baseline},
		{"impact", &opts.MonthlyImpact},
		{"worst_case", &opts.WorstCaseMonthly},
	} {
		v := q.Get(o.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			s.writeError(w, badRequest("%s must be a finite number", o.name))
			return
		}
		*o.dst = &f
	}

	ds := s.cfg.Trend.Build(a.Series, opts)
	writeJSON(w, http.StatusOK, trendResponse{
		AnomalyID:      a.ID,
		Derived:        ds,
		Axis:           trend.Axis(ds),
		RiskConsistent: trend.RiskConsistent(ds),
	})
}

func (s *Service) handleListPrefs(w http.ResponseWriter, _ *http.Request) {
	views, err := s.prefs.ListViews()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if views == nil {
		views = []string{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Service) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	p, err := s.prefs.LoadPrefs(chi.URLParam(r, "view"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Service) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")

	var p model.ViewPrefs
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		s.writeError(w, badRequest("decoding prefs: %v", err))
		return
	}
	if err := validatePrefs(p); err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.prefs.SavePrefs(view, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishEvent("prefs_updated", view, &saved)
	writeJSON(w, http.StatusOK, saved)
}

func (s *Service) handleDeletePrefs(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	if err := s.prefs.DeletePrefs(view); err != nil {
		s.writeError(w, err)
		return
	}
	s.publishEvent("prefs_deleted", view, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func validatePrefs(p model.ViewPrefs) error {
	if err := recommend.ValidatePrefs(p); err != nil {
		return badRequest("%v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, store.ErrInvalidView):
		status = http.StatusBadRequest
	default:
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
