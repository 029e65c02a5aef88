package analysis

// Grade is a named band over the completion-percentage axis, with the
// color token the dashboard renders it in.
type Grade struct {
	Min   float64
	Max   float64
	Label string
	Color string
}

// grades are the performance bands, lowest first. Bands are half-open
// [Min, Max) except the last, which closes at 100.
var grades = []Grade{
	{0, 50, "저조함", "#D83B01"},
	{50, 70, "개선 필요", "#FFB900"},
	{70, 85, "양호", "#107C10"},
	{85, 95, "우수", "#0078D4"},
	{95, 100, "최상위", "#775DD0"},
}

// GradeFor maps a completion percentage to its performance band. Values
// outside every band (negative, or above 100) fall back to the last band
// rather than erroring.
func GradeFor(completion float64) Grade {
	for _, g := range grades {
		if completion >= g.Min && completion < g.Max {
			return g
		}
	}
	return grades[len(grades)-1]
}
