package assessment

// ProjectType identifies which project course a student is enrolled in.
type ProjectType string

const (
	ProjectIDP      ProjectType = "IDP"
	ProjectUROP     ProjectType = "UROP"
	ProjectCapstone ProjectType = "CAPSTONE"
)

func ParseProjectType(s string) (ProjectType, bool) {
	switch ProjectType(s) {
	case ProjectIDP, ProjectUROP, ProjectCapstone:
		return ProjectType(s), true
	}
	return "", false
}

// WindowType is the action a time window gates.
type WindowType string

const (
	WindowProposal   WindowType = "proposal"
	WindowSubmission WindowType = "submission"
	WindowAssessment WindowType = "assessment"
)

// AssessmentType is one gradable component of a student's evaluation.
// The set is closed; Sequence gives the fixed grading order.
type AssessmentType string

const (
	CLA1     AssessmentType = "CLA-1"
	CLA2     AssessmentType = "CLA-2"
	CLA3     AssessmentType = "CLA-3"
	External AssessmentType = "External"
)

// Sequence is the canonical order CLA-1 -> CLA-2 -> CLA-3 -> External.
var Sequence = [4]AssessmentType{CLA1, CLA2, CLA3, External}

func ParseAssessmentType(s string) (AssessmentType, bool) {
	switch AssessmentType(s) {
	case CLA1, CLA2, CLA3, External:
		return AssessmentType(s), true
	}
	return "", false
}

// Scale maps a component's raw entry ceiling to its weighted share of the
// 100-point total.
type Scale struct {
	RawMax      float64 `json:"raw_max"`
	WeightedMax float64 `json:"weighted_max"`
}

// scales is the single source of truth for score conversion. The four
// WeightedMax values must sum to exactly 100.
var scales = map[AssessmentType]Scale{
	CLA1:     {RawMax: 20, WeightedMax: 10},
	CLA2:     {RawMax: 30, WeightedMax: 15},
	CLA3:     {RawMax: 50, WeightedMax: 25},
	External: {RawMax: 100, WeightedMax: 50},
}

// ScaleFor returns the conversion scale for t. ok is false for any value
// outside the closed enum.
func ScaleFor(t AssessmentType) (Scale, bool) {
	s, ok := scales[t]
	return s, ok
}
