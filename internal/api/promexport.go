package api

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/centerpulse/centerpulse/internal/analysis"
	"github.com/centerpulse/centerpulse/internal/bizday"
	"github.com/centerpulse/centerpulse/internal/domain"
)

// exposition serves GET /metrics in the Prometheus text format. Gauges
// are rebuilt from the latest in-window snapshot on every scrape.
func (h *Handler) exposition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view := analysis.Aggregate(h.store.All(), analysis.Params{
		Date:   bizday.SentinelAll,
		Hour:   bizday.SentinelAll,
		Center: bizday.SentinelAll,
		Target: float64(h.defaults.Target),
	})

	families := buildFamilies(view.Metrics, h.store.Len())

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

// buildFamilies converts the derived per-center metrics into
// MetricFamily protos for the exposition encoder.
func buildFamilies(metrics []domain.EnhancedCenterMetric, snapshots int) []*dto.MetricFamily {
	type gaugeDef struct {
		name  string
		help  string
		value func(m domain.EnhancedCenterMetric) float64
	}
	defs := []gaugeDef{
		{"centerpulse_completion_percent", "Closing completion rate per center.",
			func(m domain.EnhancedCenterMetric) float64 { return m.Completion }},
		{"centerpulse_closed_count", "Closed order count per center.",
			func(m domain.EnhancedCenterMetric) float64 { return float64(m.Closed) }},
		{"centerpulse_remaining_count", "Remaining order count per center.",
			func(m domain.EnhancedCenterMetric) float64 { return float64(m.Remaining) }},
		{"centerpulse_index_score", "Composite performance index per center.",
			func(m domain.EnhancedCenterMetric) float64 { return float64(m.IndexScore) }},
		{"centerpulse_closing_speed", "Closed orders per elapsed business hour.",
			func(m domain.EnhancedCenterMetric) float64 { return m.ClosingSpeed }},
		{"centerpulse_target_gap_percent", "Completion gap against the configured target.",
			func(m domain.EnhancedCenterMetric) float64 { return m.Gap }},
	}

	families := make([]*dto.MetricFamily, 0, len(defs)+1)
	for _, def := range defs {
		mf := &dto.MetricFamily{
			Name: strPtr(def.name),
			Help: strPtr(def.help),
			Type: dto.MetricType_GAUGE.Enum(),
		}
		for _, m := range metrics {
			mf.Metric = append(mf.Metric, &dto.Metric{
				Label: []*dto.LabelPair{{Name: strPtr("center"), Value: strPtr(m.Name)}},
				Gauge: &dto.Gauge{Value: f64Ptr(def.value(m))},
			})
		}
		if len(mf.Metric) > 0 {
			families = append(families, mf)
		}
	}

	families = append(families, &dto.MetricFamily{
		Name: strPtr("centerpulse_snapshots"),
		Help: strPtr("Number of hourly snapshots held in the store."),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: f64Ptr(float64(snapshots))}},
		},
	})
	return families
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
