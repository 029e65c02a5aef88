// Package ingest normalizes the raw spreadsheet CSV export into the
// canonical snapshot list. Parsing never fails outward: malformed input
// degrades to an empty result so the pipeline renders "no data" instead
// of crashing.
package ingest
