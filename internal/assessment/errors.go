package assessment

import (
	"errors"
	"fmt"
)

var ErrEvaluationNotFound = errors.New("evaluation not found")

// ScoreOutOfRangeError reports a raw conduct score outside [0, RawMax] for
// the component being graded.
type ScoreOutOfRangeError struct {
	Type   AssessmentType
	Score  float64
	RawMax float64
}

func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("score %g out of range for %s: want 0..%g", e.Score, e.Type, e.RawMax)
}

// PhaseNotActiveError reports a grading attempt while no assessment window
// for the phase is open. The UI is expected to prevent this; the workflow
// re-validates anyway.
type PhaseNotActiveError struct {
	Type        AssessmentType
	ProjectType ProjectType
}

func (e *PhaseNotActiveError) Error() string {
	return fmt.Sprintf("assessment window for %s/%s is not active", e.ProjectType, e.Type)
}

// UnknownComponentError reports an assessment type with no scale entry.
// Cannot occur through the closed enum; kept for untrusted input paths.
type UnknownComponentError struct {
	Type AssessmentType
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown assessment component %q", string(e.Type))
}
