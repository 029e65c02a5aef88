package analysis

import "testing"

func TestGradeFor_Bands(t *testing.T) {
	cases := []struct {
		completion float64
		want       string
	}{
		{0, "저조함"},
		{49.9, "저조함"},
		{50, "개선 필요"},
		{69.9, "개선 필요"},
		{70, "양호"},
		{84.9, "양호"},
		{85, "우수"},
		{94.9, "우수"},
		{95, "최상위"},
		{99.9, "최상위"},
		{100, "최상위"},
	}
	for _, c := range cases {
		if got := GradeFor(c.completion); got.Label != c.want {
			t.Errorf("GradeFor(%v) = %q, want %q", c.completion, got.Label, c.want)
		}
	}
}

func TestGradeFor_OutOfRangeFallsBackToFinalBand(t *testing.T) {
	for _, v := range []float64{-5, 150} {
		if got := GradeFor(v); got.Label != "최상위" {
			t.Errorf("GradeFor(%v) = %q, want final band", v, got.Label)
		}
	}
}

func TestGradeFor_CarriesColorToken(t *testing.T) {
	if got := GradeFor(72).Color; got != "#107C10" {
		t.Errorf("GradeFor(72).Color = %q, want #107C10", got)
	}
}
