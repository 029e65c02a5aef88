package forecast

import (
	"math"
	"testing"

	"github.com/centerpulse/centerpulse/internal/domain"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// history builds a single-center day of snapshots at consecutive hours
// with the given completion values.
func history(date string, startHour int, completions ...float64) []domain.TimeSnapshot {
	snaps := make([]domain.TimeSnapshot, 0, len(completions))
	for i, c := range completions {
		hour := (startHour + i) % 24
		snaps = append(snaps, domain.TimeSnapshot{
			Date: date,
			Time: labelFor(hour),
			Centers: []domain.CenterSnapshot{{
				Name:       "A",
				Total:      1000,
				Closed:     int(c * 10),
				Remaining:  1000 - int(c*10),
				Completion: c,
			}},
		})
	}
	return snaps
}

func labelFor(h int) string {
	return string([]byte{'0' + byte(h/10), '0' + byte(h%10)}) + ":00"
}

func TestForecast_InsufficientHistory(t *testing.T) {
	records := history("2025-01-01", 18, 40, 50, 58) // only 3 points
	if got := Forecast(records, 3, 80); got != nil {
		t.Errorf("3-point history should yield empty forecast, got %d steps", len(got))
	}
}

func TestForecast_TrendMode(t *testing.T) {
	// Deltas 10, 8, 6 → weighted = 10*0.2 + 8*0.3 + 6*0.5 = 7.4.
	records := history("2025-01-01", 17, 40, 50, 58, 64)

	steps := Forecast(records, 2, 80)
	if len(steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(steps))
	}

	c1, ok := steps[0].Center("A")
	if !ok {
		t.Fatal("center A missing from step 1")
	}
	want1 := 64 + 7.4*0.9 // adjustedDelta * h at h=1
	if !almostEqual(c1.Completion, want1, 1e-9) {
		t.Errorf("h=1 completion = %v, want %v", c1.Completion, want1)
	}
	if c1.Closed != int(math.Round(1000*want1/100)) {
		t.Errorf("h=1 closed = %d, want derived from completion", c1.Closed)
	}
	if c1.Closed+c1.Remaining != 1000 {
		t.Errorf("closed+remaining = %d, want total 1000", c1.Closed+c1.Remaining)
	}
	if !c1.IsPrediction || c1.ForecastHour != 1 {
		t.Errorf("prediction flags = (%v, %d)", c1.IsPrediction, c1.ForecastHour)
	}

	c2, _ := steps[1].Center("A")
	want2 := 64 + 7.4*0.9*0.9*2
	if !almostEqual(c2.Completion, want2, 1e-9) {
		t.Errorf("h=2 completion = %v, want %v", c2.Completion, want2)
	}
}

func TestForecast_AdjustedDeltaDecays(t *testing.T) {
	// Strictly increasing history → positive trend. The per-hour adjusted
	// delta (projected gain divided by h) must strictly shrink with h.
	records := history("2025-01-01", 15, 40, 50, 58, 64)
	steps := Forecast(records, 6, 80)
	if len(steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(steps))
	}

	prev := math.Inf(1)
	for _, step := range steps {
		c, _ := step.Center("A")
		adjusted := (c.Completion - 64) / float64(step.ForecastHour)
		if adjusted >= prev {
			t.Errorf("h=%d adjustedDelta %v did not decay below %v",
				step.ForecastHour, adjusted, prev)
		}
		prev = adjusted
	}
}

func TestForecast_CompletionCapsAt100(t *testing.T) {
	records := history("2025-01-01", 17, 70, 80, 90, 98)
	steps := Forecast(records, 6, 80)
	for _, step := range steps {
		c, _ := step.Center("A")
		if c.Completion > 100 {
			t.Errorf("h=%d completion = %v, exceeds 100", step.ForecastHour, c.Completion)
		}
		if c.Closed > c.Total {
			t.Errorf("h=%d closed = %d, exceeds total", step.ForecastHour, c.Closed)
		}
	}
}

func TestForecast_UncertaintyBand(t *testing.T) {
	records := history("2025-01-01", 17, 40, 50, 58, 64)

	// For fixed h, higher confidence narrows the band.
	narrow := Forecast(records, 3, 95)
	wide := Forecast(records, 3, 70)
	for i := range narrow {
		n, _ := narrow[i].Center("A")
		w, _ := wide[i].Center("A")
		if (n.MaxCompletion - n.MinCompletion) >= (w.MaxCompletion - w.MinCompletion) {
			t.Errorf("h=%d: band at C=95 (%v) not narrower than at C=70 (%v)",
				i+1, n.MaxCompletion-n.MinCompletion, w.MaxCompletion-w.MinCompletion)
		}
	}

	// For fixed confidence, later hours widen the band.
	steps := Forecast(records, 4, 80)
	prevWidth := -1.0
	for _, step := range steps {
		c, _ := step.Center("A")
		width := c.MaxCompletion - c.MinCompletion
		if width <= prevWidth {
			t.Errorf("h=%d band width %v did not widen past %v",
				step.ForecastHour, width, prevWidth)
		}
		prevWidth = width
	}

	// Exact width while clamps are inactive: 2 * h * (1-C/100) * 10.
	c2, _ := steps[1].Center("A")
	wantWidth := 2 * 2 * (1 - 0.80) * 10
	if !almostEqual(c2.MaxCompletion-c2.MinCompletion, wantWidth, 1e-9) {
		t.Errorf("h=2 band width = %v, want %v", c2.MaxCompletion-c2.MinCompletion, wantWidth)
	}
}

func TestForecast_LinearModeWhenHistoryIncomplete(t *testing.T) {
	records := history("2025-01-01", 17, 40, 50, 58, 64)
	// Add a second center present only in the last snapshot.
	last := &records[len(records)-1]
	last.Centers = append(last.Centers, domain.CenterSnapshot{
		Name: "B", Total: 2000, Closed: 1200, Remaining: 800, Completion: 60,
	})

	steps := Forecast(records, 2, 80)
	b1, ok := steps[0].Center("B")
	if !ok {
		t.Fatal("center B missing from forecast")
	}
	if !almostEqual(b1.Completion, 65, 1e-9) { // 60 + 1*5
		t.Errorf("linear h=1 completion = %v, want 65", b1.Completion)
	}
	if !almostEqual(b1.MinCompletion, 60, 1e-9) || !almostEqual(b1.MaxCompletion, 70, 1e-9) {
		t.Errorf("linear band = [%v, %v], want fixed ±5", b1.MinCompletion, b1.MaxCompletion)
	}
	// Closed climbs by 5% of total per hour from the observed count.
	if b1.Closed != 1300 {
		t.Errorf("linear h=1 closed = %d, want 1300", b1.Closed)
	}

	// Center A still forecasts in trend mode alongside.
	a1, _ := steps[0].Center("A")
	if !almostEqual(a1.Completion, 64+7.4*0.9, 1e-9) {
		t.Errorf("trend center disturbed by linear neighbor: %v", a1.Completion)
	}
}

func TestForecast_HourLabelsAndDateRollover(t *testing.T) {
	records := history("2025-01-01", 20, 40, 50, 58, 64) // last observed 23:00

	steps := Forecast(records, 3, 80)
	wantTimes := []string{"00:00", "01:00", "02:00"}
	for i, step := range steps {
		if step.Time != wantTimes[i] {
			t.Errorf("step %d time = %q, want %q", i+1, step.Time, wantTimes[i])
		}
		if step.Date != "2025-01-02" {
			t.Errorf("step %d date = %q, want rolled to 2025-01-02", i+1, step.Date)
		}
	}
}

func TestForecast_NoRolloverBeforeMidnight(t *testing.T) {
	records := history("2025-01-01", 17, 40, 50, 58, 64) // last observed 20:00
	steps := Forecast(records, 3, 80)
	for _, step := range steps {
		if step.Date != "2025-01-01" {
			t.Errorf("date = %q, want unchanged 2025-01-01", step.Date)
		}
	}
	if steps[0].Time != "21:00" || steps[2].Time != "23:00" {
		t.Errorf("times = %q..%q, want 21:00..23:00", steps[0].Time, steps[2].Time)
	}
}

func TestForecast_ClampsHorizonAndConfidence(t *testing.T) {
	records := history("2025-01-01", 17, 40, 50, 58, 64)
	if steps := Forecast(records, 99, 80); len(steps) != MaxHorizon {
		t.Errorf("horizon clamp: got %d steps, want %d", len(steps), MaxHorizon)
	}
	if steps := Forecast(records, 0, 80); len(steps) != MinHorizon {
		t.Errorf("horizon floor: got %d steps, want %d", len(steps), MinHorizon)
	}
	// Confidence below the floor behaves as the floor.
	atFloor := Forecast(records, 2, MinConfidence)
	below := Forecast(records, 2, 10)
	cf, _ := atFloor[1].Center("A")
	cb, _ := below[1].Center("A")
	if !almostEqual(cf.MinCompletion, cb.MinCompletion, 1e-9) {
		t.Errorf("confidence clamp: bands differ (%v vs %v)", cf.MinCompletion, cb.MinCompletion)
	}
}

func TestForecast_UsesOnlyLatestDate(t *testing.T) {
	records := append(
		history("2025-01-01", 10, 10, 20, 30, 40),
		history("2025-01-02", 17, 40, 50, 58, 64)...,
	)
	steps := Forecast(records, 1, 80)
	if len(steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(steps))
	}
	c, _ := steps[0].Center("A")
	// Based on the 2025-01-02 history, not the older day.
	if !almostEqual(c.Completion, 64+7.4*0.9, 1e-9) {
		t.Errorf("completion = %v, want forecast from latest date", c.Completion)
	}
}
