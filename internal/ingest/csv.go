package ingest

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/centerpulse/centerpulse/internal/domain"
)

// Default values applied when an auxiliary field is absent or zero, per
// the spreadsheet's conventions.
const (
	defaultEfficiency   = 80
	defaultQualityScore = 85
	capacityFactor      = 1.2 // capacity defaults to total * 1.2
)

// Parse normalizes raw CSV text into the canonical snapshot list, grouped
// by exact (date, hour) pair in first-encounter order.
//
// The format is the spreadsheet's own dialect, not RFC 4180: a double
// quote toggles an "inside literal" state so quoted values may contain
// commas, quote characters themselves are never emitted, and escaped ""
// sequences are not supported. Rows missing date, hour or center name are
// skipped with a log line. Any panic during parsing degrades to an empty
// result rather than propagating.
func Parse(text string) (snapshots []domain.TimeSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ingest: parse panic — returning empty store", "panic", r)
			snapshots = nil
		}
	}()

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	cols := columnMap(lines[0])

	// Index into snapshots by (date, hour) so rows for the same pair
	// append to one group.
	groups := make(map[string]int)

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		values := splitFields(line)

		date := strings.TrimSpace(cell(values, cols, fieldDate))
		hour := strings.TrimSpace(cell(values, cols, fieldTime))
		name := strings.TrimSpace(cell(values, cols, fieldCenterName))
		if date == "" || hour == "" || name == "" {
			slog.Warn("ingest: row skipped — missing identity fields",
				"row", i, "date", date, "time", hour, "center", name)
			continue
		}

		total := parseCount(cell(values, cols, fieldTotal))
		center := domain.CenterSnapshot{
			Name:         name,
			Total:        total,
			Closed:       parseCount(cell(values, cols, fieldClosed)),
			Remaining:    parseCount(cell(values, cols, fieldRemaining)),
			Completion:   parseRate(cell(values, cols, fieldCompletion)),
			Efficiency:   orDefault(parseCount(cell(values, cols, fieldEfficiency)), defaultEfficiency),
			Capacity:     orDefault(parseCount(cell(values, cols, fieldCapacity)), int(float64(total)*capacityFactor)),
			Backlog:      parseCount(cell(values, cols, fieldBacklog)),
			QualityScore: orDefault(parseCount(cell(values, cols, fieldQualityScore)), defaultQualityScore),
			Receipt:      parseCount(cell(values, cols, fieldReceipt)),
			Assigned:     parseCount(cell(values, cols, fieldAssigned)),
			Output:       parseCount(cell(values, cols, fieldOutput)),
		}

		key := date + "\x00" + hour
		idx, ok := groups[key]
		if !ok {
			snapshots = append(snapshots, domain.TimeSnapshot{Date: date, Time: hour})
			idx = len(snapshots) - 1
			groups[key] = idx
		}
		snapshots[idx].Centers = append(snapshots[idx].Centers, center)
	}

	return snapshots
}

// columnMap parses the header line into canonical-key → column-index.
func columnMap(headerLine string) map[string]int {
	cols := make(map[string]int)
	for i, h := range strings.Split(headerLine, ",") {
		h = strings.TrimSpace(strings.ReplaceAll(h, "\r", ""))
		h = strings.TrimSpace(stripSurroundingQuotes(h))
		cols[canonicalKey(h)] = i
	}
	return cols
}

// splitFields scans one data line character by character, splitting on
// commas outside quotes. A quote toggles the literal state and is itself
// never emitted into the value.
func splitFields(line string) []string {
	var (
		values   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	values = append(values, current.String())
	return values
}

// cell returns the value at the mapped column for key, or "" when the
// column is unmapped or the row is short.
func cell(values []string, cols map[string]int, key string) string {
	idx, ok := cols[key]
	if !ok || idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}

// parseCount coerces a raw cell to a non-negative count. Quotes, commas
// and apostrophes are stripped first so "1,234" parses as 1234. Blank or
// unparseable cells yield 0; fractional cells truncate.
func parseCount(raw string) int {
	cleaned := strings.Map(func(r rune) rune {
		if r == '"' || r == '\'' || r == ',' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if cleaned == "" {
		return 0
	}
	if n, err := strconv.Atoi(cleaned); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseRate coerces a raw cell to a float percentage, defaulting to 0.
func parseRate(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

// orDefault substitutes def when v is zero, matching the source data's
// convention that zero means "not reported" for auxiliary fields.
func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func stripSurroundingQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
