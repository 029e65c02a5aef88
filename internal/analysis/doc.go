// Package analysis turns the record store into the per-period views the
// dashboard renders: graded per-center metrics, the chronological
// per-hour series, and operational insight cards. Everything here is a
// pure function of (records, params) — no module state, so identical
// inputs always produce identical output.
package analysis
