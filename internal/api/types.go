package api

import (
	"github.com/centerpulse/centerpulse/internal/alerts"
	"github.com/centerpulse/centerpulse/internal/domain"
	"github.com/centerpulse/centerpulse/internal/forecast"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"` // "ok" | "empty"
	SnapshotCount int    `json:"snapshot_count"`
	CenterCount   int    `json:"center_count"`
	DateCount     int    `json:"date_count"`
	LastUpdated   string `json:"last_updated,omitempty"` // RFC3339
	DataSource    string `json:"data_source,omitempty"`  // "sheet" | "sample"
}

// ParamsResponse echoes the derivation parameters a response was
// computed under, after defaulting and clamping.
type ParamsResponse struct {
	Date       string  `json:"date"`
	Hour       string  `json:"hour"`
	Center     string  `json:"center"`
	Target     float64 `json:"target"`
	Horizon    int     `json:"horizon"`
	Confidence int     `json:"confidence"`
}

// DashboardResponse is the payload for GET /api/v1/dashboard — the full
// derived view for one filter selection.
type DashboardResponse struct {
	Params   ParamsResponse                `json:"params"`
	Date     string                        `json:"date"` // snapshot actually chosen
	Time     string                        `json:"time"`
	Metrics  []domain.EnhancedCenterMetric `json:"metrics"`
	Series   []domain.HourPoint            `json:"series"`
	Insights []domain.Insight              `json:"insights"`
}

// SeriesResponse is the payload for GET /api/v1/series.
type SeriesResponse struct {
	Date   string             `json:"date"`
	Series []domain.HourPoint `json:"series"`
}

// ForecastResponse is the payload for GET /api/v1/forecast.
type ForecastResponse struct {
	Params ParamsResponse             `json:"params"`
	Steps  []domain.PredictedSnapshot `json:"steps"`
	ETAs   []forecast.ETA             `json:"etas"`
}

// InsightsResponse is the payload for GET /api/v1/insights.
type InsightsResponse struct {
	Insights []domain.Insight `json:"insights"`
}

// FiltersResponse is the payload for GET /api/v1/filters — the selectable
// values, each list led by the "all" sentinel.
type FiltersResponse struct {
	Dates   []string `json:"dates"`
	Hours   []string `json:"hours"`
	Centers []string `json:"centers"`
}

// AlertsResponse is the payload for GET /api/v1/alerts.
type AlertsResponse struct {
	Active  []alerts.Alert `json:"active"`
	History []alerts.Alert `json:"history"`
}

// RefreshResponse is the payload for POST /api/v1/refresh.
type RefreshResponse struct {
	Refreshed     bool   `json:"refreshed"`
	SnapshotCount int    `json:"snapshot_count"`
	DataSource    string `json:"data_source"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
