package assessment

import "time"

// ComponentScore is one graded component of an evaluation.
//
// Conduct == 0 means "not yet graded"; a deliberate zero cannot be awarded
// through this model. That overload comes from the legacy portal and is kept
// for compatibility.
type ComponentScore struct {
	Conduct     float64   `json:"conduct"`
	Comments    string    `json:"comments,omitempty"`
	ConductedAt time.Time `json:"conducted_at,omitempty"`
}

// Graded reports whether the component carries a recorded score.
func (c ComponentScore) Graded() bool { return c.Conduct > 0 }

// GradingStatus is the derived completeness of an evaluation (or of a subset
// of its components).
type GradingStatus string

const (
	StatusPending GradingStatus = "pending"
	StatusPartial GradingStatus = "partial"
	StatusGraded  GradingStatus = "graded"
)

// Evaluation holds one student's component scores for an academic term.
// There is exactly one per (student, term); GroupID links evaluations graded
// through the same group submission. Values are updated copy-on-write:
// mutating methods return a new Evaluation.
type Evaluation struct {
	ID          string                            `json:"id"`
	StudentID   string                            `json:"student_id"`
	Term        string                            `json:"term"`
	ProjectType ProjectType                       `json:"project_type"`
	GroupID     string                            `json:"group_id,omitempty"`
	Components  map[AssessmentType]ComponentScore `json:"components"`
	Total       float64                           `json:"total"`
	IsPublished bool                              `json:"is_published"`
	CreatedAt   int64                             `json:"created_at,omitempty"`
	UpdatedAt   int64                             `json:"updated_at,omitempty"`
}

// Component returns the score for t, zero-valued if ungraded.
func (e Evaluation) Component(t AssessmentType) ComponentScore {
	return e.Components[t]
}

// SetComponent returns a copy of e with the component replaced and Total
// recomputed. Ungraded components contribute 0, each graded one its capped
// conversion, so 0 <= Total <= 100 always holds.
func (e Evaluation) SetComponent(t AssessmentType, conduct float64, comments string, at time.Time) Evaluation {
	comps := make(map[AssessmentType]ComponentScore, len(Sequence))
	for k, v := range e.Components {
		comps[k] = v
	}
	comps[t] = ComponentScore{Conduct: conduct, Comments: comments, ConductedAt: at}

	total := 0.0
	for _, st := range Sequence {
		if c, ok := comps[st]; ok && c.Graded() {
			total += Convert(c.Conduct, st)
		}
	}
	e.Components = comps
	e.Total = total
	e.UpdatedAt = at.Unix()
	return e
}

// HasAnyScore reports whether any component has been graded.
func (e Evaluation) HasAnyScore() bool {
	for _, t := range Sequence {
		if e.Component(t).Graded() {
			return true
		}
	}
	return false
}

// IsComplete reports whether all four components have been graded.
func (e Evaluation) IsComplete() bool {
	for _, t := range Sequence {
		if !e.Component(t).Graded() {
			return false
		}
	}
	return true
}

// CompletedTypes returns the phases with any recorded grade, in sequence
// order. Feed to NextLogicalPhase.
func (e Evaluation) CompletedTypes() []AssessmentType {
	var out []AssessmentType
	for _, t := range Sequence {
		if e.Component(t).Graded() {
			out = append(out, t)
		}
	}
	return out
}

// StatusFor derives completeness over an expected subset of components, e.g.
// a CLA-2 submission card passes just CLA2 while the student summary passes
// nothing (meaning all four). Same aggregate, view-level subset.
func (e Evaluation) StatusFor(types ...AssessmentType) GradingStatus {
	if len(types) == 0 {
		types = Sequence[:]
	}
	graded := 0
	for _, t := range types {
		if e.Component(t).Graded() {
			graded++
		}
	}
	switch {
	case graded == 0:
		return StatusPending
	case graded == len(types):
		return StatusGraded
	default:
		return StatusPartial
	}
}

// Status is the overall completeness. A published evaluation reads as graded
// regardless of remaining components.
func (e Evaluation) Status() GradingStatus {
	if e.IsPublished {
		return StatusGraded
	}
	return e.StatusFor()
}

// Publish returns a copy with IsPublished set. One-directional within a term;
// component scores are untouched.
func (e Evaluation) Publish() Evaluation {
	e.IsPublished = true
	return e
}
