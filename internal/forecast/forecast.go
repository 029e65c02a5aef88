package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/centerpulse/centerpulse/internal/bizday"
	"github.com/centerpulse/centerpulse/internal/domain"
)

// Horizon and confidence bounds; out-of-range requests are clamped.
const (
	MinHorizon    = 1
	MaxHorizon    = 6
	MinConfidence = 70
	MaxConfidence = 95
)

// historyPoints is how many chronological snapshots trend mode needs.
const historyPoints = 4

// trendWeights weight the three successive completion deltas, most
// recent last and heaviest.
var trendWeights = [...]float64{0.2, 0.3, 0.5}

// dampingFactor shrinks the projected trend by 10% per additional
// forecast hour — momentum fades, it does not compound.
const dampingFactor = 0.9

// Linear-mode fallback assumptions, used when a center is missing from
// part of the history window.
const (
	linearHourlyGainPct = 5.0 // flat completion gain per hour
	linearBandWidth     = 5.0 // fixed ± uncertainty
)

// Forecast projects every center's completion forward by up to horizon
// hours from the most recent date in records. It needs at least four
// chronological snapshots for that date; with fewer it returns nil
// rather than an error.
//
// Each returned step carries the predicted hour label and a date that
// advances one calendar day when the hour wraps past midnight, so two
// steps never alias to the same (date, hour) pair.
func Forecast(records []domain.TimeSnapshot, horizon, confidence int) []domain.PredictedSnapshot {
	horizon = clampInt(horizon, MinHorizon, MaxHorizon)
	confidence = clampInt(confidence, MinConfidence, MaxConfidence)

	day := latestDay(records)
	if len(day) < historyPoints {
		return nil
	}

	history := day[len(day)-historyPoints:]
	last := history[len(history)-1]
	lastHour := bizday.Hour(last.Time)

	out := make([]domain.PredictedSnapshot, 0, horizon)
	for h := 1; h <= horizon; h++ {
		step := domain.PredictedSnapshot{
			Date:         stepDate(last.Date, lastHour, h),
			Time:         bizday.Label((lastHour + h) % 24),
			ForecastHour: h,
			IsPrediction: true,
		}
		for _, center := range last.Centers {
			step.Centers = append(step.Centers, projectCenter(center, history, h, confidence))
		}
		out = append(out, step)
	}
	return out
}

// projectCenter produces one center's prediction for forecast step h.
func projectCenter(center domain.CenterSnapshot, history []domain.TimeSnapshot, h, confidence int) domain.PredictedCenterSnapshot {
	points, complete := completionHistory(center.Name, history)
	if !complete {
		return linearProjection(center, h)
	}

	var weightedDelta float64
	for i := 1; i < len(points); i++ {
		weightedDelta += (points[i] - points[i-1]) * trendWeights[i-1]
	}
	adjustedDelta := weightedDelta * math.Pow(dampingFactor, float64(h))

	completion := math.Min(center.Completion+adjustedDelta*float64(h), 100)
	closed := math.Min(float64(center.Total)*completion/100, float64(center.Total))
	uncertainty := float64(h) * (1 - float64(confidence)/100) * 10

	predicted := center
	predicted.Completion = completion
	predicted.Closed = int(math.Round(closed))
	predicted.Remaining = center.Total - predicted.Closed

	return domain.PredictedCenterSnapshot{
		CenterSnapshot: predicted,
		IsPrediction:   true,
		ForecastHour:   h,
		MinCompletion:  math.Max(0, completion-uncertainty),
		MaxCompletion:  math.Min(100, completion+uncertainty),
	}
}

// linearProjection is the fallback when the center is absent from part of
// the history window: a flat 5-points-per-hour climb with a fixed band.
func linearProjection(center domain.CenterSnapshot, h int) domain.PredictedCenterSnapshot {
	completion := math.Min(center.Completion+float64(h)*linearHourlyGainPct, 100)
	closed := math.Min(
		float64(center.Closed)+float64(h)*float64(center.Total)*linearHourlyGainPct/100,
		float64(center.Total),
	)

	predicted := center
	predicted.Completion = completion
	predicted.Closed = int(math.Round(closed))
	predicted.Remaining = center.Total - predicted.Closed

	return domain.PredictedCenterSnapshot{
		CenterSnapshot: predicted,
		IsPrediction:   true,
		ForecastHour:   h,
		MinCompletion:  math.Max(0, completion-linearBandWidth),
		MaxCompletion:  math.Min(100, completion+linearBandWidth),
	}
}

// completionHistory extracts the center's completion at each history
// snapshot. complete is false when the center is missing from any point.
func completionHistory(name string, history []domain.TimeSnapshot) (points []float64, complete bool) {
	points = make([]float64, 0, len(history))
	for _, snap := range history {
		c, ok := snap.Center(name)
		if !ok {
			return nil, false
		}
		points = append(points, c.Completion)
	}
	return points, true
}

// latestDay returns the most recent date's in-window snapshots, sorted by
// hour ordinal ascending.
func latestDay(records []domain.TimeSnapshot) []domain.TimeSnapshot {
	var latest string
	for _, snap := range records {
		if bizday.InWindow(snap.Time) && snap.Date > latest {
			latest = snap.Date
		}
	}
	var day []domain.TimeSnapshot
	for _, snap := range records {
		if snap.Date == latest && bizday.InWindow(snap.Time) {
			day = append(day, snap)
		}
	}
	sort.Slice(day, func(i, j int) bool {
		return bizday.Ordinal(day[i].Time) < bizday.Ordinal(day[j].Time)
	})
	return day
}

// stepDate advances the base date by a calendar day for each time the
// predicted hour wraps past 23:00. Dates that do not parse as 2006-01-02
// are carried unchanged — label ordering still holds within the horizon.
func stepDate(base string, lastHour, h int) string {
	days := (lastHour + h) / 24
	if days == 0 {
		return base
	}
	t, err := time.Parse("2006-01-02", base)
	if err != nil {
		return base
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
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
