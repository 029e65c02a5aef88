package store

import (
	"sort"
	"sync"
	"time"

	"github.com/centerpulse/centerpulse/internal/bizday"
	"github.com/centerpulse/centerpulse/internal/domain"
)

// Store is a thread-safe holder of the canonical snapshot list.
type Store struct {
	mu        sync.RWMutex
	snapshots []domain.TimeSnapshot
	updatedAt time.Time
	source    string // where the current data came from ("sheet", "sample")

	now func() time.Time // injectable for deterministic tests
}

// New returns an empty Store.
func New() *Store {
	return &Store{now: time.Now}
}

// Replace swaps the entire snapshot list atomically and records the data
// source label. Callers must not modify snapshots after the call.
func (s *Store) Replace(snapshots []domain.TimeSnapshot, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = snapshots
	s.updatedAt = s.now()
	s.source = source
}

// All returns the full snapshot list in store order. The returned slice
// is a copy; callers may not mutate the shared snapshots through it.
func (s *Store) All() []domain.TimeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TimeSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// BusinessWindow returns only the snapshots whose hour falls inside the
// business window, in store order. Hours 02:00–08:00 are dropped
// unconditionally regardless of any filter selection.
func (s *Store) BusinessWindow() []domain.TimeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TimeSnapshot
	for _, snap := range s.snapshots {
		if bizday.InWindow(snap.Time) {
			out = append(out, snap)
		}
	}
	return out
}

// Len returns the number of snapshots currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// UpdatedAt returns when the list was last replaced, and the data source
// label recorded with it.
func (s *Store) UpdatedAt() (time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt, s.source
}

// Dates returns the distinct dates present, newest first by calendar
// comparison (dates are ISO-ish strings, so string order matches).
func (s *Store) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, snap := range s.snapshots {
		set[snap.Date] = struct{}{}
	}
	out := keys(set)
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// Hours returns the distinct hour labels present, in business-day order.
func (s *Store) Hours() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, snap := range s.snapshots {
		set[snap.Time] = struct{}{}
	}
	out := keys(set)
	sort.Slice(out, func(i, j int) bool {
		return bizday.Ordinal(out[i]) < bizday.Ordinal(out[j])
	})
	return out
}

// Centers returns the distinct center names present, sorted by name.
func (s *Store) Centers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, snap := range s.snapshots {
		for _, c := range snap.Centers {
			set[c.Name] = struct{}{}
		}
	}
	out := keys(set)
	sort.Strings(out)
	return out
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
