package assessment

import "math"

// Convert maps a raw conduct score onto its weighted contribution to the
// 100-point total: scaled to the component's weighted max, rounded to one
// decimal place, then capped. Rounding happens before the cap so a full raw
// score can never round past its weighted max.
//
// Convert is pure and total over the valid domain [0, RawMax]; range
// validation is the caller's job (see Workflow.GradeSolo). Unknown types
// convert to 0.
func Convert(raw float64, t AssessmentType) float64 {
	sc, ok := scales[t]
	if !ok {
		return 0
	}
	v := math.Round(raw*sc.WeightedMax/sc.RawMax*10) / 10
	if v > sc.WeightedMax {
		v = sc.WeightedMax
	}
	return v
}
