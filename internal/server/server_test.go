package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/optiview/internal/catalog"
	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/store"
	"github.com/theirongolddev/optiview/internal/synth"
	"github.com/theirongolddev/optiview/internal/trend"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceWith(t, Config{EventsBuffer: 2, Trend: trend.NewBuilder()})
}

func newTestServiceWith(t *testing.T, cfg Config) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	data := catalog.Build(synth.New(1), catalog.Options{
		AsOf:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		SaaSCount: 10,
	})
	return New(cfg, data, st)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestService(t).Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestSummary(t *testing.T) {
	rec := do(t, newTestService(t).Handler(), http.MethodGet, "/v1/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[summaryResponse](t, rec)
	assert.Equal(t, 24, got.Count)
	assert.Equal(t, 6, got.Anomalies)
	assert.Less(t, got.MonthlyImpact, 0.0)
}

func TestRecommendations_FilterAndSort(t *testing.T) {
	h := newTestService(t).Handler()

	rec := do(t, h, http.MethodGet, "/v1/recommendations?kind=cloud&severity=high&severity=critical&sort=impact", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[listResponse](t, rec)
	require.NotEmpty(t, got.Items)
	assert.Equal(t, len(got.Items), got.Total)
	for i, r := range got.Items {
		assert.Equal(t, model.KindCloud, r.Kind)
		assert.GreaterOrEqual(t, r.Severity.Rank(), model.SeverityHigh.Rank())
		if i > 0 {
			assert.LessOrEqual(t, got.Items[i-1].MonthlyImpact, r.MonthlyImpact)
		}
	}
}

func TestRecommendations_Paging(t *testing.T) {
	h := newTestService(t).Handler()

	got := decode[listResponse](t, do(t, h, http.MethodGet, "/v1/recommendations?limit=5&offset=20", ""))

	assert.Equal(t, 24, got.Total)
	assert.Len(t, got.Items, 4)

	all := decode[listResponse](t, do(t, h, http.MethodGet, "/v1/recommendations", ""))
	got = decode[listResponse](t, do(t, h, http.MethodGet, "/v1/recommendations?offset=3", ""))
	assert.Equal(t, 24, got.Total)
	require.Len(t, got.Items, 21)
	assert.Equal(t, all.Items[3].ID, got.Items[0].ID)
}

func TestRecommendations_BadQuery(t *testing.T) {
	h := newTestService(t).Handler()
	for _, q := range []string{"kind=onprem", "severity=urgent", "status=closed", "sort=cost", "desc=maybe", "limit=-1", "offset=abc", "offset=-2", "limit=2&offset=abc"} {
		rec := do(t, h, http.MethodGet, "/v1/recommendations?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, decode[map[string]string](t, rec), "error")
	}
}

func TestRecommendations_UsesStoredView(t *testing.T) {
	h := newTestService(t).Handler()
	rec := do(t, h, http.MethodPut, "/v1/prefs/recs", `{"kind":"saas","sortBy":"title"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[listResponse](t, do(t, h, http.MethodGet, "/v1/recommendations?view=recs", ""))

	assert.Equal(t, 10, got.Total)
	for i := 1; i < len(got.Items); i++ {
		assert.LessOrEqual(t, strings.ToLower(got.Items[i-1].Title), strings.ToLower(got.Items[i].Title))
	}

	got = decode[listResponse](t, do(t, h, http.MethodGet, "/v1/recommendations?view=recs&kind=", ""))
	assert.Equal(t, 24, got.Total, "explicit empty kind overrides the stored view")
}

func TestRecommendationByID(t *testing.T) {
	h := newTestService(t).Handler()

	rec := do(t, h, http.MethodGet, "/v1/recommendations/rec-aws-ec2-rightsize", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rec-aws-ec2-rightsize", decode[model.Recommendation](t, rec).ID)

	rec = do(t, h, http.MethodGet, "/v1/recommendations/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnomalies(t *testing.T) {
	h := newTestService(t).Handler()

	list := decode[[]model.Anomaly](t, do(t, h, http.MethodGet, "/v1/anomalies", ""))
	assert.Len(t, list, 6)

	rec := do(t, h, http.MethodGet, "/v1/anomalies/anom-aws-ec2-spike", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/anomalies/nope", "").Code)
}

func TestTrend(t *testing.T) {
	h := newTestService(t).Handler()

	rec := do(t, h, http.MethodGet, "/v1/anomalies/anom-aws-ec2-spike/trend", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		AnomalyID string `json:"anomalyId"`
		Derived   struct {
			Window         []model.CostTrendPoint `json:"window"`
			Forward        []model.CostTrendPoint `json:"forwardProjection"`
			BaselineValue  float64                `json:"baselineValue"`
			ProjectedTrend []trend.SeriesPoint    `json:"projectedTrendSeries"`
		} `json:"derived"`
		Axis []struct {
			Style string `json:"style"`
		} `json:"axis"`
		RiskConsistent bool `json:"riskConsistent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "anom-aws-ec2-spike", got.AnomalyID)
	assert.Len(t, got.Derived.Window, 8)
	assert.True(t, got.Derived.Window[7].IsAnomaly)
	assert.Len(t, got.Derived.Forward, 7)
	assert.Equal(t, 2400.0, got.Derived.BaselineValue)
	require.Len(t, got.Derived.ProjectedTrend, 7)
	assert.Equal(t, 2400+81000.0/30, got.Derived.ProjectedTrend[0].Value)
	assert.Len(t, got.Axis, 15)
	assert.Equal(t, "above", got.Axis[7].Style)
	assert.Equal(t, "neutral", got.Axis[8].Style)
	assert.True(t, got.RiskConsistent)
}

func TestTrend_Overrides(t *testing.T) {
	h := newTestService(t).Handler()

	rec := do(t, h, http.MethodGet, "/v1/anomalies/anom-aws-ec2-spike/trend?baseline=100&impact=0&worst_case=3000", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[struct {
		Derived trend.DerivedSeries `json:"derived"`
	}](t, rec)
	assert.Equal(t, 100.0, got.Derived.BaselineValue)
	for _, p := range got.Derived.ProjectedTrend {
		assert.Equal(t, 100.0, p.Value)
	}
	for _, p := range got.Derived.WorstCase {
		assert.Equal(t, 100.0, p.Value)
	}

	for _, q := range []string{"baseline=abc", "impact=NaN", "worst_case=Inf"} {
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/v1/anomalies/anom-aws-ec2-spike/trend?"+q, "").Code, q)
	}
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/anomalies/nope/trend", "").Code)
}

func TestPrefsLifecycle(t *testing.T) {
	svc := newTestService(t)
	h := svc.Handler()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/prefs/recs", "").Code)

	rec := do(t, h, http.MethodPut, "/v1/prefs/recs", `{"sortBy":"severity","severities":["high"],"pageSize":20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[model.ViewPrefs](t, rec)
	assert.False(t, saved.UpdatedAt.IsZero())

	got := decode[model.ViewPrefs](t, do(t, h, http.MethodGet, "/v1/prefs/recs", ""))
	assert.Equal(t, []model.Severity{model.SeverityHigh}, got.Severities)
	assert.Equal(t, 20, got.PageSize)

	assert.Equal(t, []string{"recs"}, decode[[]string](t, do(t, h, http.MethodGet, "/v1/prefs", "")))

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/v1/prefs/recs", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/v1/prefs/recs", "").Code)
	assert.Equal(t, []string{}, decode[[]string](t, do(t, h, http.MethodGet, "/v1/prefs", "")))

	events := decode[[]Event](t, do(t, h, http.MethodGet, "/v1/events", ""))
	require.Len(t, events, 2)
	assert.Equal(t, "prefs_updated", events[0].Type)
	assert.Equal(t, "prefs_deleted", events[1].Type)
}

func TestPrefs_BadInput(t *testing.T) {
	h := newTestService(t).Handler()
	tests := map[string]string{
		"/v1/prefs/recs":     `{"sortBy":"cost"}`,
		"/v1/prefs/Recs":     `{}`,
		"/v1/prefs/recs?x=1": `{"unknown":true}`,
		"/v1/prefs/recs?y=1": `{"statuses":["closed"]}`,
		"/v1/prefs/recs?z=1": `not json`,
	}
	for target, body := range tests {
		rec := do(t, h, http.MethodPut, target, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", target, body)
	}
}

func TestEventRingBuffer(t *testing.T) {
	svc := newTestService(t)

	svc.publishEvent("a", "v", nil)
	svc.publishEvent("b", "v", nil)
	svc.publishEvent("c", "v", nil)

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	require.Len(t, svc.events, 2)
	assert.Equal(t, int64(2), svc.events[0].ID)
	assert.Equal(t, int64(3), svc.events[1].ID)
}

func TestCORS(t *testing.T) {
	h := newTestService(t).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/v1/summary", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	svc := newTestService(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServe_ShutsDownWithOpenStream(t *testing.T) {
	svc := newTestService(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/v1/stream")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
	case <-time.After(6 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestTrend_KeepsConfiguredZeroBuilder(t *testing.T) {
	h := newTestServiceWith(t, Config{Trend: trend.Builder{}}).Handler()
	data := catalog.Build(synth.New(1), catalog.Options{
		AsOf:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		SaaSCount: 10,
	})
	an := data.Anomalies()[0]

	got := decode[trendResponse](t, do(t, h, http.MethodGet, "/v1/anomalies/"+an.ID+"/trend", ""))
	assert.Len(t, got.Derived.Window, 1, "look_back 0 keeps only the anchor")
	assert.Empty(t, got.Derived.ForwardProjection, "look_ahead 0 has no forward slots")
}
