// Package bizday converts between wall-clock hour labels ("HH:00") and a
// linear ordinal that orders one business day correctly. The tracked
// operation runs from 09:00/10:00 through 01:00 the next calendar day, so
// plain hour comparison would sort 00:00 and 01:00 before the evening
// hours they actually follow.
package bizday

import (
	"fmt"
	"strconv"
	"strings"
)

// SentinelAll is the filter value meaning "no selection". It maps to
// ordinal -1 and always sorts before any real hour.
const SentinelAll = "전체"

// Ordinal converts an hour label to its position within the business day.
// Hours 00–09 belong to the next calendar day and map to 24–33; all other
// hours map to themselves. SentinelAll maps to -1. An unparseable label
// also maps to -1 so it sorts first rather than interleaving.
func Ordinal(label string) int {
	if label == SentinelAll {
		return -1
	}
	h, err := parseHour(label)
	if err != nil {
		return -1
	}
	if h >= 0 && h < 10 {
		return h + 24
	}
	return h
}

// Label converts an ordinal back to an hour label. Negative ordinals
// return SentinelAll; ordinals ≥ 24 fold back via modulo, so Label is the
// inverse of Ordinal only on the 00:00..23:00 label domain.
func Label(n int) string {
	if n < 0 {
		return SentinelAll
	}
	return fmt.Sprintf("%02d:00", n%24)
}

// InWindow reports whether the label's hour falls inside the business
// window: 10:00–23:00, plus 00:00, 01:00 and 09:00. Hours 02:00–08:00 are
// out-of-band noise and are excluded regardless of filter selection.
func InWindow(label string) bool {
	h, err := parseHour(label)
	if err != nil {
		return false
	}
	return h >= 10 || h == 0 || h == 1 || h == 9
}

// Hour returns the plain wall-clock hour of a label, or 0 when the label
// does not parse. Used where the raw hour matters (elapsed-hour math),
// not for ordering.
func Hour(label string) int {
	h, err := parseHour(label)
	if err != nil {
		return 0
	}
	return h
}

func parseHour(label string) (int, error) {
	head, _, ok := strings.Cut(label, ":")
	if !ok {
		head = label
	}
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("bizday: parse hour %q: %w", label, err)
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("bizday: hour %d out of range", h)
	}
	return h, nil
}
