package domain

// CenterSnapshot is one center's measurements at one (date, hour).
//
// closed + remaining == total is the ingestion target but is not enforced:
// the spreadsheet occasionally violates it, and Completion is supplied
// independently by the source rather than derived from Closed/Total.
type CenterSnapshot struct {
	Name         string  `json:"name"`
	Total        int     `json:"total"`
	Closed       int     `json:"closed"`
	Remaining    int     `json:"remaining"`
	Completion   float64 `json:"completion"` // percent, 0–100
	Efficiency   int     `json:"efficiency"`
	Capacity     int     `json:"capacity"`
	Backlog      int     `json:"backlog"`
	QualityScore int     `json:"quality_score"`
	Receipt      int     `json:"receipt"`
	Assigned     int     `json:"assigned"`
	Output       int     `json:"output"`
}

// TimeSnapshot is one (date, hour) observation holding one CenterSnapshot
// per known center. The record store holds at most one TimeSnapshot per
// (date, hour) pair.
type TimeSnapshot struct {
	Date    string           `json:"date"` // ISO-ish "2006-01-02"
	Time    string           `json:"time"` // hour label "HH:00"
	Centers []CenterSnapshot `json:"centers"`
}

// Center returns the named center's snapshot and whether it was present.
func (s TimeSnapshot) Center(name string) (CenterSnapshot, bool) {
	for _, c := range s.Centers {
		if c.Name == name {
			return c, true
		}
	}
	return CenterSnapshot{}, false
}
