package domain

// EnhancedCenterMetric is a CenterSnapshot plus the per-period performance
// fields derived by the aggregator. Recomputed on every parameter change,
// never persisted.
type EnhancedCenterMetric struct {
	CenterSnapshot

	PerformanceGrade string  `json:"performance_grade"`
	PerformanceColor string  `json:"performance_color"`
	IndexScore       int     `json:"index_score"`   // round(completion*0.6 + efficiency*0.4)
	ClosingSpeed     float64 `json:"closing_speed"` // closed per elapsed hour
	Target           float64 `json:"target"`
	Gap              float64 `json:"gap"` // completion - target
}

// HourPoint is one point in the chronological per-hour series for a date,
// shaped for point-wise charting.
type HourPoint struct {
	Time           string  `json:"time"`
	TotalClosed    int     `json:"total_closed"`
	TotalRemaining int     `json:"total_remaining"`
	AvgCompletion  float64 `json:"avg_completion"`
	Target         float64 `json:"target"`
	IsPrediction   bool    `json:"is_prediction"`

	// Per-center values keyed by center name.
	ClosedByCenter     map[string]int     `json:"closed_by_center"`
	CompletionByCenter map[string]float64 `json:"completion_by_center"`
}

// PredictedCenterSnapshot is a CenterSnapshot projected ForecastHour hours
// ahead, with a symmetric uncertainty band around the projected completion.
type PredictedCenterSnapshot struct {
	CenterSnapshot

	IsPrediction  bool    `json:"is_prediction"`
	ForecastHour  int     `json:"forecast_hour"`
	MinCompletion float64 `json:"min_completion"`
	MaxCompletion float64 `json:"max_completion"`
}

// PredictedSnapshot carries all centers' predicted metrics for one
// forecast step. Date advances past the store's last date when the
// predicted hour wraps across midnight.
type PredictedSnapshot struct {
	Date         string                    `json:"date"`
	Time         string                    `json:"time"`
	ForecastHour int                       `json:"forecast_hour"`
	IsPrediction bool                      `json:"is_prediction"`
	Centers      []PredictedCenterSnapshot `json:"centers"`
}

// Center returns the named center's prediction and whether it was present.
func (s PredictedSnapshot) Center(name string) (PredictedCenterSnapshot, bool) {
	for _, c := range s.Centers {
		if c.Name == name {
			return c, true
		}
	}
	return PredictedCenterSnapshot{}, false
}

// Insight is one operational observation derived from the current metrics,
// rendered by the dashboard as a card.
type Insight struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
	Type    string `json:"type"` // "positive" | "neutral" | "warning" | "action"
}
