package assessment_test

import (
	"testing"

	"github.com/campusforge/projectportal/internal/assessment"
)

func TestScaleTableSumsTo100(t *testing.T) {
	sum := 0.0
	for _, at := range assessment.Sequence {
		sc, ok := assessment.ScaleFor(at)
		if !ok {
			t.Fatalf("no scale for %s", at)
		}
		sum += sc.WeightedMax
	}
	if sum != 100 {
		t.Fatalf("weighted maxima sum to %g, want 100", sum)
	}
}

func TestConvertExactAtRawMax(t *testing.T) {
	for _, at := range assessment.Sequence {
		sc, _ := assessment.ScaleFor(at)
		got := assessment.Convert(sc.RawMax, at)
		if got != sc.WeightedMax {
			t.Fatalf("Convert(%g, %s) = %g, want %g", sc.RawMax, at, got, sc.WeightedMax)
		}
	}
}

func TestConvertScenarios(t *testing.T) {
	cases := []struct {
		raw  float64
		typ  assessment.AssessmentType
		want float64
	}{
		{15, assessment.CLA1, 7.5},
		{45, assessment.CLA3, 22.5},
		{0, assessment.CLA2, 0},
		{10, assessment.CLA2, 5},
		{73, assessment.External, 36.5},
	}
	for _, c := range cases {
		if got := assessment.Convert(c.raw, c.typ); got != c.want {
			t.Fatalf("Convert(%g, %s) = %g, want %g", c.raw, c.typ, got, c.want)
		}
	}
}

func TestConvertStaysWithinWeightedMax(t *testing.T) {
	for _, at := range assessment.Sequence {
		sc, _ := assessment.ScaleFor(at)
		for raw := 0.0; raw <= sc.RawMax; raw += 0.25 {
			got := assessment.Convert(raw, at)
			if got < 0 || got > sc.WeightedMax {
				t.Fatalf("Convert(%g, %s) = %g escapes [0,%g]", raw, at, got, sc.WeightedMax)
			}
		}
	}
}

func TestConvertUnknownTypeIsZero(t *testing.T) {
	if got := assessment.Convert(50, assessment.AssessmentType("CLA-9")); got != 0 {
		t.Fatalf("Convert on unknown type = %g, want 0", got)
	}
}
