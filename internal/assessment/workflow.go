package assessment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workflow validates and applies grading actions on top of a Store and a
// WindowSource. One Workflow serves one academic term.
type Workflow struct {
	store   Store
	windows WindowSource
	term    string
	now     func() time.Time
}

func NewWorkflow(store Store, windows WindowSource, term string, now func() time.Time) *Workflow {
	if now == nil {
		now = time.Now
	}
	return &Workflow{store: store, windows: windows, term: term, now: now}
}

func (wf *Workflow) Term() string { return wf.term }

// GradeSolo validates a single-student grading action and applies it,
// creating the evaluation on first contact. Validation failures come back as
// typed errors (ScoreOutOfRangeError, PhaseNotActiveError,
// UnknownComponentError); anything else is a store error.
func (wf *Workflow) GradeSolo(ctx context.Context, studentID string, pt ProjectType, t AssessmentType, raw float64, comments string) (Evaluation, error) {
	return wf.gradeOne(ctx, studentID, "", pt, t, raw, comments)
}

func (wf *Workflow) gradeOne(ctx context.Context, studentID, groupID string, pt ProjectType, t AssessmentType, raw float64, comments string) (Evaluation, error) {
	sc, ok := ScaleFor(t)
	if !ok {
		return Evaluation{}, &UnknownComponentError{Type: t}
	}
	if raw < 0 || raw > sc.RawMax {
		return Evaluation{}, &ScoreOutOfRangeError{Type: t, Score: raw, RawMax: sc.RawMax}
	}
	if err := wf.requireActivePhase(ctx, pt, t); err != nil {
		return Evaluation{}, err
	}

	now := wf.now()
	e, err := wf.store.GetEvaluation(ctx, studentID, wf.term)
	switch {
	case err == nil:
	case err == ErrEvaluationNotFound:
		e = Evaluation{
			ID:          uuid.NewString(),
			StudentID:   studentID,
			Term:        wf.term,
			ProjectType: pt,
			CreatedAt:   now.Unix(),
		}
	default:
		return Evaluation{}, err
	}
	if groupID != "" {
		e.GroupID = groupID
	}
	// last writer wins on project type, same as the other fields; a student
	// re-enrolled under a different project keeps one evaluation per term
	e.ProjectType = pt

	e = e.SetComponent(t, raw, comments, now)
	if err := wf.store.PutEvaluation(ctx, e); err != nil {
		return Evaluation{}, err
	}
	return e, nil
}

// requireActivePhase re-validates the grading window even though the UI
// already gates it.
func (wf *Workflow) requireActivePhase(ctx context.Context, pt ProjectType, t AssessmentType) error {
	ws, err := wf.windows.WindowsFor(ctx, pt)
	if err != nil {
		return err
	}
	r := NewResolver(NewCatalog(ws))
	if !r.IsPhaseActive(wf.now(), pt, t) {
		return &PhaseNotActiveError{Type: t, ProjectType: pt}
	}
	return nil
}

// GroupResult is the per-student outcome of a group grading action. Partial
// success is the expected shape, never collapsed into one pass/fail.
type GroupResult struct {
	Succeeded []string
	Failed    map[string]error
}

// GradeGroup applies one grading action across a group, one independent
// GradeSolo per member with that member's raw score and the shared comment.
// Not transactional: an invalid score for one member must not block the
// rest. Members touch disjoint evaluation records, so the fan-out runs
// concurrently without coordination.
func (wf *Workflow) GradeGroup(ctx context.Context, groupID string, pt ProjectType, t AssessmentType, scores map[string]float64, comments string) GroupResult {
	res := GroupResult{Failed: map[string]error{}}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for studentID, raw := range scores {
		wg.Add(1)
		go func(studentID string, raw float64) {
			defer wg.Done()
			_, err := wf.gradeOne(ctx, studentID, groupID, pt, t, raw, comments)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[studentID] = err
				return
			}
			res.Succeeded = append(res.Succeeded, studentID)
		}(studentID, raw)
	}
	wg.Wait()

	sort.Strings(res.Succeeded)
	return res
}

// ReleaseProjectType publishes every unpublished evaluation under pt for the
// current term and returns how many flipped. Idempotent: already-published
// records are skipped, so a second run reports 0. Each publish is
// independent; an interrupted run leaves a resumable state.
func (wf *Workflow) ReleaseProjectType(ctx context.Context, pt ProjectType) (int, error) {
	evals, err := wf.store.ListEvaluations(ctx, pt, wf.term)
	if err != nil {
		return 0, err
	}
	published := 0
	for _, e := range evals {
		if e.IsPublished {
			continue
		}
		if err := wf.store.PutEvaluation(ctx, e.Publish()); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}
