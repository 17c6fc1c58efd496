package assessment

import "time"

// PhaseMode selects which window kind a phase query is about.
type PhaseMode string

const (
	ModeGrading    PhaseMode = "grading"
	ModeSubmission PhaseMode = "submission"
)

func ParsePhaseMode(s string) (PhaseMode, bool) {
	switch PhaseMode(s) {
	case ModeGrading, ModeSubmission:
		return PhaseMode(s), true
	}
	return "", false
}

// Resolver answers "what assessment phase, if any, should I be acting on"
// from a window catalog. Absence of an active window is a normal outcome
// reported via the ok flag, never an error.
type Resolver struct {
	cat *Catalog
}

func NewResolver(cat *Catalog) *Resolver { return &Resolver{cat: cat} }

// CurrentGradingPhase returns the assessment type of the first active
// assessment window for pt.
func (r *Resolver) CurrentGradingPhase(now time.Time, pt ProjectType) (AssessmentType, bool) {
	return r.firstActive(now, WindowAssessment, pt)
}

// CurrentSubmissionPhase returns the assessment type of the first active
// submission window for pt.
func (r *Resolver) CurrentSubmissionPhase(now time.Time, pt ProjectType) (AssessmentType, bool) {
	return r.firstActive(now, WindowSubmission, pt)
}

// ResolvePhase dispatches on mode; consumed by the UI to decide which
// grading/submission form or closed-state to show.
func (r *Resolver) ResolvePhase(now time.Time, pt ProjectType, mode PhaseMode) (AssessmentType, bool) {
	if mode == ModeSubmission {
		return r.CurrentSubmissionPhase(now, pt)
	}
	return r.CurrentGradingPhase(now, pt)
}

// ActivePhases returns all currently open assessment-window phases for pt in
// canonical sequence order, deduplicated. Supports UI badges when several
// phases are open at once.
func (r *Resolver) ActivePhases(now time.Time, pt ProjectType) []AssessmentType {
	open := map[AssessmentType]bool{}
	for _, w := range r.cat.ActiveWindows(now, WindowAssessment, pt) {
		open[w.Assessment] = true
	}
	var out []AssessmentType
	for _, t := range Sequence {
		if open[t] {
			out = append(out, t)
		}
	}
	return out
}

// IsPhaseActive reports whether an assessment window for t is currently open.
// Gates whether grading UI is enabled versus merely informational.
func (r *Resolver) IsPhaseActive(now time.Time, pt ProjectType, t AssessmentType) bool {
	for _, w := range r.cat.ActiveWindows(now, WindowAssessment, pt) {
		if w.Assessment == t {
			return true
		}
	}
	return false
}

func (r *Resolver) firstActive(now time.Time, wt WindowType, pt ProjectType) (AssessmentType, bool) {
	ws := r.cat.ActiveWindows(now, wt, pt)
	if len(ws) == 0 {
		return "", false
	}
	return ws[0].Assessment, true
}

// NextLogicalPhase suggests the next phase in the fixed sequence given which
// phases already carry any recorded grade. With nothing completed it returns
// CLA-1; once all four are completed External is the terminal steady state.
// Pure, no time dependency: used when no window is open but the UI still
// needs to point at the logical next step.
func NextLogicalPhase(completed []AssessmentType) AssessmentType {
	done := map[AssessmentType]bool{}
	for _, t := range completed {
		done[t] = true
	}
	for _, t := range Sequence {
		if !done[t] {
			return t
		}
	}
	return External
}
