package forecast

import (
	"math"

	"github.com/centerpulse/centerpulse/internal/domain"
)

// completionTarget is the completion percentage treated as "done" for
// ETA purposes.
const completionTarget = 95.0

// ETA is the estimated time for one center to reach the completion
// target. Known is false when no positive trend exists to extrapolate —
// the dashboard renders that as "cannot predict" rather than a time.
type ETA struct {
	Name                string  `json:"name"`
	Hours               int     `json:"hours"`
	Known               bool    `json:"known"`
	CurrentCompletion   float64 `json:"current_completion"`
	PredictedCompletion float64 `json:"predicted_completion"`
}

// CompletionETAs scans each center's forecast sequence for the first step
// reaching the target. Centers that never reach it within the horizon are
// linearly extrapolated past it using the average per-hour rate observed
// across the forecast window; a non-positive rate yields Known=false.
func CompletionETAs(metrics []domain.EnhancedCenterMetric, steps []domain.PredictedSnapshot, horizon int) []ETA {
	out := make([]ETA, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, centerETA(m, steps, horizon))
	}
	return out
}

func centerETA(m domain.EnhancedCenterMetric, steps []domain.PredictedSnapshot, horizon int) ETA {
	eta := ETA{Name: m.Name, CurrentCompletion: m.Completion}

	var preds []domain.PredictedCenterSnapshot
	for _, step := range steps {
		if c, ok := step.Center(m.Name); ok {
			preds = append(preds, c)
		}
	}
	if len(preds) > 0 {
		eta.PredictedCompletion = preds[len(preds)-1].Completion
	}

	// A center already at the target reports zero hours. Checked before
	// scanning the forecast steps, so it never reports the first step's
	// hour instead.
	if m.Completion >= completionTarget {
		eta.Hours, eta.Known = 0, true
		return eta
	}

	for _, p := range preds {
		if p.Completion >= completionTarget {
			eta.Hours, eta.Known = p.ForecastHour, true
			return eta
		}
	}

	if len(preds) == 0 || horizon <= 0 {
		return eta
	}

	final := preds[len(preds)-1]
	rate := (final.Completion - m.Completion) / float64(horizon)
	if rate <= 0 {
		return eta
	}
	eta.Hours = int(math.Ceil(float64(horizon) + (completionTarget-final.Completion)/rate))
	eta.Known = true
	return eta
}
