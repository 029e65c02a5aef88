package analysis

import (
	"math"
	"sort"

	"github.com/centerpulse/centerpulse/internal/bizday"
	"github.com/centerpulse/centerpulse/internal/domain"
)

// Index score weights: completion dominates, efficiency tempers it.
const (
	indexWeightCompletion = 0.6
	indexWeightEfficiency = 0.4
)

// Params is the filter selection the aggregation runs under. Date, Hour
// and Center use bizday.SentinelAll to mean "no selection".
type Params struct {
	Date   string
	Hour   string
	Center string
	Target float64 // performance target, 0–100
}

// View is the derived per-period output: the graded metrics table for the
// chosen snapshot and the per-hour series for the chosen date.
type View struct {
	// Date and Time identify the snapshot the metrics were computed from,
	// which may differ from the requested selection when the fallback rule
	// applied.
	Date string `json:"date"`
	Time string `json:"time"`

	Metrics []domain.EnhancedCenterMetric `json:"metrics"`
	Series  []domain.HourPoint            `json:"series"`
}

// Aggregate selects a working snapshot by the given filters and derives
// the per-center metrics table plus the chronological per-hour series.
//
// When no snapshot matches the date/hour narrowing, the chronologically
// last business-window snapshot is chosen instead — the dashboard always
// renders the most recent available data rather than an error.
func Aggregate(records []domain.TimeSnapshot, p Params) View {
	windowed := businessWindow(records)
	if len(windowed) == 0 {
		return View{}
	}

	narrowed := narrow(windowed, p.Date, p.Hour)
	var chosen domain.TimeSnapshot
	if len(narrowed) == 0 {
		chosen = chronoLast(windowed)
	} else {
		chosen = chronoLast(narrowed)
	}

	centers := chosen.Centers
	if p.Center != bizday.SentinelAll && p.Center != "" {
		centers = nil
		for _, c := range chosen.Centers {
			if c.Name == p.Center {
				centers = append(centers, c)
			}
		}
	}

	// Elapsed hours for closing speed: the snapshot's wall-clock hour,
	// with hour 0 treated as 1 to guard the division.
	elapsed := bizday.Hour(chosen.Time)
	if elapsed < 1 {
		elapsed = 1
	}

	metrics := make([]domain.EnhancedCenterMetric, 0, len(centers))
	for _, c := range centers {
		g := GradeFor(c.Completion)
		metrics = append(metrics, domain.EnhancedCenterMetric{
			CenterSnapshot:   c,
			PerformanceGrade: g.Label,
			PerformanceColor: g.Color,
			IndexScore:       int(math.Round(c.Completion*indexWeightCompletion + float64(c.Efficiency)*indexWeightEfficiency)),
			ClosingSpeed:     float64(c.Closed) / float64(elapsed),
			Target:           p.Target,
			Gap:              c.Completion - p.Target,
		})
	}

	return View{
		Date:    chosen.Date,
		Time:    chosen.Time,
		Metrics: metrics,
		Series:  series(windowed, p),
	}
}

// series builds the ordinal-sorted per-hour series for the selected date,
// or for the most recent date present when no date is selected.
func series(windowed []domain.TimeSnapshot, p Params) []domain.HourPoint {
	date := p.Date
	if date == bizday.SentinelAll || date == "" {
		date = latestDate(windowed)
	}

	var day []domain.TimeSnapshot
	for _, snap := range windowed {
		if snap.Date == date {
			day = append(day, snap)
		}
	}
	sortByOrdinal(day)

	points := make([]domain.HourPoint, 0, len(day))
	for _, snap := range day {
		pt := domain.HourPoint{
			Time:               snap.Time,
			Target:             p.Target,
			ClosedByCenter:     make(map[string]int, len(snap.Centers)),
			CompletionByCenter: make(map[string]float64, len(snap.Centers)),
		}
		var completionSum float64
		for _, c := range snap.Centers {
			pt.TotalClosed += c.Closed
			pt.TotalRemaining += c.Remaining
			completionSum += c.Completion
			pt.ClosedByCenter[c.Name] = c.Closed
			pt.CompletionByCenter[c.Name] = c.Completion
		}
		if len(snap.Centers) > 0 {
			pt.AvgCompletion = completionSum / float64(len(snap.Centers))
		}
		points = append(points, pt)
	}
	return points
}

// narrow keeps snapshots matching the exact date and hour selections.
func narrow(snaps []domain.TimeSnapshot, date, hour string) []domain.TimeSnapshot {
	var out []domain.TimeSnapshot
	for _, snap := range snaps {
		if date != bizday.SentinelAll && date != "" && snap.Date != date {
			continue
		}
		if hour != bizday.SentinelAll && hour != "" && snap.Time != hour {
			continue
		}
		out = append(out, snap)
	}
	return out
}

// chronoLast picks the most recent snapshot by calendar date, then by
// hour ordinal — not by insertion order.
func chronoLast(snaps []domain.TimeSnapshot) domain.TimeSnapshot {
	best := snaps[0]
	for _, snap := range snaps[1:] {
		if snap.Date > best.Date ||
			(snap.Date == best.Date && bizday.Ordinal(snap.Time) > bizday.Ordinal(best.Time)) {
			best = snap
		}
	}
	return best
}

// latestDate returns the maximum date present, by calendar comparison.
func latestDate(snaps []domain.TimeSnapshot) string {
	var latest string
	for _, snap := range snaps {
		if snap.Date > latest {
			latest = snap.Date
		}
	}
	return latest
}

func sortByOrdinal(snaps []domain.TimeSnapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		return bizday.Ordinal(snaps[i].Time) < bizday.Ordinal(snaps[j].Time)
	})
}

// businessWindow is the record-store window filter applied before any
// user selection: hours 02:00–08:00 never reach the pipeline.
func businessWindow(records []domain.TimeSnapshot) []domain.TimeSnapshot {
	var out []domain.TimeSnapshot
	for _, snap := range records {
		if bizday.InWindow(snap.Time) {
			out = append(out, snap)
		}
	}
	return out
}
