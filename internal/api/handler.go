package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/centerpulse/centerpulse/internal/alerts"
	"github.com/centerpulse/centerpulse/internal/analysis"
	"github.com/centerpulse/centerpulse/internal/bizday"
	"github.com/centerpulse/centerpulse/internal/config"
	"github.com/centerpulse/centerpulse/internal/forecast"
	"github.com/centerpulse/centerpulse/internal/store"
)

// Refresher triggers a manual re-ingest cycle. Implemented by the poll
// loop in main.
type Refresher func(ctx context.Context) error

// Handler is the HTTP handler for all /api/v1/* endpoints and /metrics.
type Handler struct {
	store    *store.Store
	alerts   *alerts.Engine
	defaults config.DashboardConfig
	refresh  Refresher
	limiter  *refreshLimiter
	mux      *http.ServeMux
}

// New creates a Handler wired to the given store and registers all
// routes. refresh may be nil, which disables POST /api/v1/refresh.
func New(st *store.Store, alertEngine *alerts.Engine, defaults config.DashboardConfig, refresh Refresher) http.Handler {
	h := &Handler{
		store:    st,
		alerts:   alertEngine,
		defaults: defaults,
		refresh:  refresh,
		limiter:  newRefreshLimiter(),
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/dashboard", h.dashboard)
	h.mux.HandleFunc("/api/v1/series", h.series)
	h.mux.HandleFunc("/api/v1/forecast", h.forecast)
	h.mux.HandleFunc("/api/v1/insights", h.insights)
	h.mux.HandleFunc("/api/v1/filters", h.filters)
	h.mux.HandleFunc("/api/v1/alerts", h.alertList)
	h.mux.HandleFunc("/api/v1/refresh", h.refreshNow)
	h.mux.HandleFunc("/metrics", h.exposition)

	return requestID(h.mux)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — store freshness and shape.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{
		Status:        "ok",
		SnapshotCount: h.store.Len(),
		CenterCount:   len(h.store.Centers()),
		DateCount:     len(h.store.Dates()),
	}
	if resp.SnapshotCount == 0 {
		resp.Status = "empty"
	}
	if at, source := h.store.UpdatedAt(); !at.IsZero() {
		resp.LastUpdated = at.UTC().Format(time.RFC3339)
		resp.DataSource = source
	}
	jsonResp(w, http.StatusOK, resp)
}

// dashboard returns GET /api/v1/dashboard — metrics, series and insights
// for the requested filter selection.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jsonResp(w, http.StatusOK, buildDashboard(h.store, h.params(r)))
}

// BuildDashboard derives the all-centers dashboard view using the
// configured defaults. The websocket hub uses it to build broadcast
// frames identical to what GET /api/v1/dashboard returns.
func BuildDashboard(st *store.Store, defaults config.DashboardConfig) DashboardResponse {
	return buildDashboard(st, ParamsResponse{
		Date:       bizday.SentinelAll,
		Hour:       bizday.SentinelAll,
		Center:     bizday.SentinelAll,
		Target:     float64(defaults.Target),
		Horizon:    defaults.ForecastHorizon,
		Confidence: defaults.ForecastConfidence,
	})
}

func buildDashboard(st *store.Store, params ParamsResponse) DashboardResponse {
	view := analysis.Aggregate(st.All(), toAnalysisParams(params))
	return DashboardResponse{
		Params:   params,
		Date:     view.Date,
		Time:     view.Time,
		Metrics:  view.Metrics,
		Series:   view.Series,
		Insights: analysis.Insights(view.Metrics, params.Target),
	}
}

// series returns GET /api/v1/series — the per-hour series only.
func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	params := h.params(r)
	view := analysis.Aggregate(h.store.All(), toAnalysisParams(params))
	date := params.Date
	if date == bizday.SentinelAll {
		date = view.Date
	}
	jsonResp(w, http.StatusOK, SeriesResponse{Date: date, Series: view.Series})
}

// forecast returns GET /api/v1/forecast — predicted snapshots plus the
// per-center completion ETAs.
func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	params := h.params(r)
	records := h.store.All()
	steps := forecast.Forecast(records, params.Horizon, params.Confidence)

	view := analysis.Aggregate(records, toAnalysisParams(params))
	jsonResp(w, http.StatusOK, ForecastResponse{
		Params: params,
		Steps:  steps,
		ETAs:   forecast.CompletionETAs(view.Metrics, steps, params.Horizon),
	})
}

// insights returns GET /api/v1/insights.
func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	params := h.params(r)
	view := analysis.Aggregate(h.store.All(), toAnalysisParams(params))
	jsonResp(w, http.StatusOK, InsightsResponse{
		Insights: analysis.Insights(view.Metrics, params.Target),
	})
}

// filters returns GET /api/v1/filters — selectable dates, hours and
// centers, each led by the "all" sentinel.
func (h *Handler) filters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jsonResp(w, http.StatusOK, FiltersResponse{
		Dates:   withSentinel(h.store.Dates()),
		Hours:   withSentinel(h.store.Hours()),
		Centers: withSentinel(h.store.Centers()),
	})
}

// alertList returns GET /api/v1/alerts.
func (h *Handler) alertList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp := AlertsResponse{Active: []alerts.Alert{}, History: []alerts.Alert{}}
	if h.alerts != nil {
		resp.Active = h.alerts.Active()
		resp.History = h.alerts.History()
	}
	jsonResp(w, http.StatusOK, resp)
}

// refreshNow handles POST /api/v1/refresh — a manual re-ingest,
// rate-limited per client IP.
func (h *Handler) refreshNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.refresh == nil {
		jsonErr(w, http.StatusNotImplemented, "manual refresh not wired")
		return
	}
	if !h.limiter.allow(clientIP(r)) {
		w.Header().Set("Retry-After", "1")
		jsonErr(w, http.StatusTooManyRequests, "too many refresh requests")
		return
	}

	if err := h.refresh(r.Context()); err != nil {
		jsonErr(w, http.StatusBadGateway, "refresh failed: "+err.Error())
		return
	}
	_, source := h.store.UpdatedAt()
	jsonResp(w, http.StatusOK, RefreshResponse{
		Refreshed:     true,
		SnapshotCount: h.store.Len(),
		DataSource:    source,
	})
}

// --- helpers ----------------------------------------------------------------

// params reads the derivation parameters from the query string, applying
// configured defaults and clamping numeric values to their valid ranges.
func (h *Handler) params(r *http.Request) ParamsResponse {
	q := r.URL.Query()

	p := ParamsResponse{
		Date:       orSentinel(q.Get("date")),
		Hour:       orSentinel(q.Get("hour")),
		Center:     orSentinel(q.Get("center")),
		Target:     float64(h.defaults.Target),
		Horizon:    h.defaults.ForecastHorizon,
		Confidence: h.defaults.ForecastConfidence,
	}
	if v, err := strconv.ParseFloat(q.Get("target"), 64); err == nil {
		p.Target = clampFloat(v, 0, 100)
	}
	if v, err := strconv.Atoi(q.Get("horizon")); err == nil {
		p.Horizon = clampInt(v, forecast.MinHorizon, forecast.MaxHorizon)
	}
	if v, err := strconv.Atoi(q.Get("confidence")); err == nil {
		p.Confidence = clampInt(v, forecast.MinConfidence, forecast.MaxConfidence)
	}
	return p
}

func toAnalysisParams(p ParamsResponse) analysis.Params {
	return analysis.Params{
		Date:   p.Date,
		Hour:   p.Hour,
		Center: p.Center,
		Target: p.Target,
	}
}

func orSentinel(v string) string {
	if v == "" {
		return bizday.SentinelAll
	}
	return v
}

func withSentinel(values []string) []string {
	return append([]string{bizday.SentinelAll}, values...)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
