package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centerpulse/centerpulse/internal/api"
	"github.com/centerpulse/centerpulse/internal/config"
	"github.com/centerpulse/centerpulse/internal/domain"
	"github.com/centerpulse/centerpulse/internal/store"
)

// --- test helpers -----------------------------------------------------------

func defaults() config.DashboardConfig {
	return config.DashboardConfig{
		Target:             config.DefaultTarget,
		ForecastHorizon:    config.DefaultHorizon,
		ForecastConfidence: config.DefaultConfidence,
	}
}

func center(name string, total, closed int, completion float64) domain.CenterSnapshot {
	return domain.CenterSnapshot{
		Name:       name,
		Total:      total,
		Closed:     closed,
		Remaining:  total - closed,
		Completion: completion,
		Efficiency: 80,
		Capacity:   total + total/5,
	}
}

func newStore(snaps ...domain.TimeSnapshot) *store.Store {
	st := store.New()
	if len(snaps) > 0 {
		st.Replace(snaps, "test")
	}
	return st
}

// morning covers four consecutive business hours so both aggregation
// and forecasting have enough history to work with.
func morning() []domain.TimeSnapshot {
	hours := []string{"10:00", "11:00", "12:00", "13:00"}
	snaps := make([]domain.TimeSnapshot, 0, len(hours))
	for i, hr := range hours {
		snaps = append(snaps, domain.TimeSnapshot{
			Date: "2024-05-20",
			Time: hr,
			Centers: []domain.CenterSnapshot{
				center("수도권1", 1000, 300+i*150, 30+float64(i)*15),
				center("수도권2", 800, 200+i*100, 25+float64(i)*12.5),
			},
		})
	}
	return snaps
}

func newHandler(st *store.Store, refresh api.Refresher) http.Handler {
	return api.New(st, nil, defaults(), refresh)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth_EmptyStore(t *testing.T) {
	h := newHandler(newStore(), nil)
	rr := get(t, h, "/api/v1/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)

	if resp.Status != "empty" {
		t.Errorf("status field: got %q, want empty", resp.Status)
	}
	if resp.SnapshotCount != 0 {
		t.Errorf("snapshot_count: got %d, want 0", resp.SnapshotCount)
	}
}

func TestHealth_Populated(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/api/v1/health")

	var resp api.HealthResponse
	decode(t, rr, &resp)

	if resp.Status != "ok" {
		t.Errorf("status field: got %q, want ok", resp.Status)
	}
	if resp.SnapshotCount != 4 {
		t.Errorf("snapshot_count: got %d, want 4", resp.SnapshotCount)
	}
	if resp.CenterCount != 2 {
		t.Errorf("center_count: got %d, want 2", resp.CenterCount)
	}
	if resp.DataSource != "test" {
		t.Errorf("data_source: got %q, want test", resp.DataSource)
	}
	if resp.LastUpdated == "" {
		t.Error("last_updated: empty")
	}
}

func TestHealth_RequestIDHeader(t *testing.T) {
	h := newHandler(newStore(), nil)
	rr := get(t, h, "/api/v1/health")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

// --- /api/v1/dashboard ------------------------------------------------------

func TestDashboard_Defaults(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/api/v1/dashboard")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.DashboardResponse
	decode(t, rr, &resp)

	if resp.Params.Date != "전체" || resp.Params.Center != "전체" {
		t.Errorf("sentinel defaults: got date=%q center=%q", resp.Params.Date, resp.Params.Center)
	}
	if resp.Params.Target != 85 {
		t.Errorf("default target: got %v, want 85", resp.Params.Target)
	}
	if resp.Time != "13:00" {
		t.Errorf("latest hour: got %q, want 13:00", resp.Time)
	}
	if len(resp.Metrics) != 2 {
		t.Fatalf("metrics: got %d centers, want 2", len(resp.Metrics))
	}
	if len(resp.Insights) != 5 {
		t.Errorf("insights: got %d cards, want 5", len(resp.Insights))
	}
	if len(resp.Series) != 4 {
		t.Errorf("series: got %d points, want 4", len(resp.Series))
	}
}

func TestDashboard_CenterFilter(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/api/v1/dashboard?center=수도권1")

	var resp api.DashboardResponse
	decode(t, rr, &resp)

	if len(resp.Metrics) != 1 {
		t.Fatalf("metrics: got %d, want 1", len(resp.Metrics))
	}
	if resp.Metrics[0].Name != "수도권1" {
		t.Errorf("center: got %q", resp.Metrics[0].Name)
	}
}

func TestDashboard_TargetClamped(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/api/v1/dashboard?target=250")

	var resp api.DashboardResponse
	decode(t, rr, &resp)
	if resp.Params.Target != 100 {
		t.Errorf("target: got %v, want clamp to 100", resp.Params.Target)
	}
}

func TestDashboard_MethodNotAllowed(t *testing.T) {
	h := newHandler(newStore(), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/forecast -------------------------------------------------------

func TestForecast_ParamClamping(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/api/v1/forecast?horizon=99&confidence=10")

	var resp api.ForecastResponse
	decode(t, rr, &resp)

	if resp.Params.Horizon != 6 {
		t.Errorf("horizon: got %d, want clamp to 6", resp.Params.Horizon)
	}
	if resp.Params.Confidence != 70 {
		t.Errorf("confidence: got %d, want clamp to 70", resp.Params.Confidence)
	}
	if len(resp.Steps) != 6 {
		t.Errorf("steps: got %d, want 6", len(resp.Steps))
	}
	if len(resp.ETAs) != 2 {
		t.Errorf("etas: got %d, want 2", len(resp.ETAs))
	}
}

func TestForecast_StepsMarkedPredicted(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/api/v1/forecast")

	var resp api.ForecastResponse
	decode(t, rr, &resp)

	if len(resp.Steps) == 0 {
		t.Fatal("no forecast steps")
	}
	for i, s := range resp.Steps {
		if !s.IsPrediction {
			t.Errorf("step %d: not marked as prediction", i)
		}
	}
	if resp.Steps[0].Time != "14:00" {
		t.Errorf("first step hour: got %q, want 14:00", resp.Steps[0].Time)
	}
}

// --- /api/v1/filters --------------------------------------------------------

func TestFilters_SentinelFirst(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/api/v1/filters")

	var resp api.FiltersResponse
	decode(t, rr, &resp)

	for name, vals := range map[string][]string{
		"dates": resp.Dates, "hours": resp.Hours, "centers": resp.Centers,
	} {
		if len(vals) == 0 || vals[0] != "전체" {
			t.Errorf("%s: want sentinel first, got %v", name, vals)
		}
	}
	if len(resp.Hours) != 5 {
		t.Errorf("hours: got %d entries, want sentinel + 4", len(resp.Hours))
	}
}

// --- /api/v1/refresh --------------------------------------------------------

func TestRefresh_Disabled(t *testing.T) {
	h := newHandler(newStore(), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status: got %d, want 501", rr.Code)
	}
}

func TestRefresh_InvokesCallback(t *testing.T) {
	called := false
	st := newStore(morning()...)
	h := newHandler(st, func(ctx context.Context) error {
		called = true
		return nil
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	if !called {
		t.Error("refresh callback not invoked")
	}
	var resp api.RefreshResponse
	decode(t, rr, &resp)
	if !resp.Refreshed || resp.SnapshotCount != 4 {
		t.Errorf("response: got %+v", resp)
	}
}

func TestRefresh_GetRejected(t *testing.T) {
	h := newHandler(newStore(), func(ctx context.Context) error { return nil })
	rr := get(t, h, "/api/v1/refresh")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/alerts ---------------------------------------------------------

func TestAlerts_NoEngine(t *testing.T) {
	h := newHandler(newStore(), nil)
	rr := get(t, h, "/api/v1/alerts")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.AlertsResponse
	decode(t, rr, &resp)
	if resp.Active == nil || resp.History == nil {
		t.Error("active/history should decode to empty slices, not null")
	}
}

// --- /metrics ---------------------------------------------------------------

func TestMetrics_Exposition(t *testing.T) {
	h := newHandler(newStore(morning()...), nil)
	rr := get(t, h, "/metrics")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"# TYPE centerpulse_completion_percent gauge",
		`centerpulse_closed_count{center="수도권1"}`,
		"centerpulse_snapshots 4",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q\nbody:\n%s", want, body)
		}
	}
}

func TestMetrics_EmptyStore(t *testing.T) {
	h := newHandler(newStore(), nil)
	rr := get(t, h, "/metrics")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "centerpulse_snapshots 0") {
		t.Errorf("want snapshot gauge even when empty, got:\n%s", rr.Body.String())
	}
}
