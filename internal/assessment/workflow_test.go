package assessment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusforge/projectportal/internal/assessment"
)

// fakeWindows serves a fixed window set, mirroring the windows table.
type fakeWindows struct {
	windows []assessment.Window
}

func (f *fakeWindows) WindowsFor(_ context.Context, pt assessment.ProjectType) ([]assessment.Window, error) {
	var out []assessment.Window
	for _, w := range f.windows {
		if w.ProjectType == pt {
			out = append(out, w)
		}
	}
	return out, nil
}

var testNow = time.Date(2026, 4, 20, 11, 0, 0, 0, time.UTC)

func openPhase(pt assessment.ProjectType, at assessment.AssessmentType) assessment.Window {
	return assessment.Window{
		ID:          "w-" + string(pt) + "-" + string(at),
		Type:        assessment.WindowAssessment,
		ProjectType: pt,
		Assessment:  at,
		StartAt:     testNow.Add(-24 * time.Hour),
		EndAt:       testNow.Add(24 * time.Hour),
	}
}

func newTestWorkflow(ws ...assessment.Window) (*assessment.Workflow, assessment.Store) {
	store := assessment.NewInMemoryStore()
	wf := assessment.NewWorkflow(store, &fakeWindows{windows: ws}, "2026-even", func() time.Time { return testNow })
	return wf, store
}

func TestGradeSoloCreatesEvaluation(t *testing.T) {
	wf, store := newTestWorkflow(openPhase(assessment.ProjectIDP, assessment.CLA1))

	e, err := wf.GradeSolo(context.Background(), "s1", assessment.ProjectIDP, assessment.CLA1, 15, "solid work")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Total != 7.5 {
		t.Fatalf("total = %g, want 7.5", e.Total)
	}
	if e.ID == "" {
		t.Fatalf("expected implicit evaluation creation with an ID")
	}

	got, err := store.GetEvaluation(context.Background(), "s1", "2026-even")
	if err != nil {
		t.Fatalf("evaluation not persisted: %v", err)
	}
	if got.Component(assessment.CLA1).Comments != "solid work" {
		t.Fatalf("comments not persisted")
	}
}

func TestGradeSoloScoreOutOfRange(t *testing.T) {
	wf, store := newTestWorkflow(openPhase(assessment.ProjectIDP, assessment.CLA1))

	_, err := wf.GradeSolo(context.Background(), "s1", assessment.ProjectIDP, assessment.CLA1, 25, "")
	var oor *assessment.ScoreOutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("expected ScoreOutOfRangeError, got %v", err)
	}
	if oor.RawMax != 20 {
		t.Fatalf("error reports raw max %g, want 20", oor.RawMax)
	}
	if _, err := store.GetEvaluation(context.Background(), "s1", "2026-even"); !errors.Is(err, assessment.ErrEvaluationNotFound) {
		t.Fatalf("rejected grade must not create an evaluation")
	}
}

func TestGradeSoloPhaseNotActive(t *testing.T) {
	// CLA-2 window open, CLA-1 attempted
	wf, _ := newTestWorkflow(openPhase(assessment.ProjectIDP, assessment.CLA2))

	_, err := wf.GradeSolo(context.Background(), "s1", assessment.ProjectIDP, assessment.CLA1, 10, "")
	var pna *assessment.PhaseNotActiveError
	if !errors.As(err, &pna) {
		t.Fatalf("expected PhaseNotActiveError, got %v", err)
	}
}

func TestGradeSoloUnknownComponent(t *testing.T) {
	wf, _ := newTestWorkflow()
	_, err := wf.GradeSolo(context.Background(), "s1", assessment.ProjectIDP, assessment.AssessmentType("CLA-9"), 10, "")
	var uc *assessment.UnknownComponentError
	if !errors.As(err, &uc) {
		t.Fatalf("expected UnknownComponentError, got %v", err)
	}
}

func TestGradeGroupPartialSuccess(t *testing.T) {
	wf, store := newTestWorkflow(openPhase(assessment.ProjectCapstone, assessment.CLA3))

	res := wf.GradeGroup(context.Background(), "g7", assessment.ProjectCapstone, assessment.CLA3,
		map[string]float64{"s1": 45, "s2": 40, "s3": 90}, "shared note")

	if len(res.Succeeded) != 2 {
		t.Fatalf("succeeded = %v, want 2 students", res.Succeeded)
	}
	if len(res.Failed) != 1 {
		t.Fatalf("failed = %v, want 1 entry", res.Failed)
	}
	var oor *assessment.ScoreOutOfRangeError
	if !errors.As(res.Failed["s3"], &oor) {
		t.Fatalf("s3 failure should be ScoreOutOfRangeError, got %v", res.Failed["s3"])
	}

	// valid members were graded despite the invalid one
	e, err := store.GetEvaluation(context.Background(), "s2", "2026-even")
	if err != nil {
		t.Fatalf("s2 not graded: %v", err)
	}
	if e.GroupID != "g7" {
		t.Fatalf("group id = %q, want g7", e.GroupID)
	}
	if e.Component(assessment.CLA3).Comments != "shared note" {
		t.Fatalf("shared comment not applied")
	}
}

func TestReleaseProjectTypeIdempotent(t *testing.T) {
	wf, store := newTestWorkflow(openPhase(assessment.ProjectUROP, assessment.CLA1))
	ctx := context.Background()

	for _, sid := range []string{"s1", "s2", "s3"} {
		if _, err := wf.GradeSolo(ctx, sid, assessment.ProjectUROP, assessment.CLA1, 12, ""); err != nil {
			t.Fatalf("seed grade %s: %v", sid, err)
		}
	}

	n, err := wf.ReleaseProjectType(ctx, assessment.ProjectUROP)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if n != 3 {
		t.Fatalf("first release published %d, want 3", n)
	}

	n, err = wf.ReleaseProjectType(ctx, assessment.ProjectUROP)
	if err != nil {
		t.Fatalf("second release: %v", err)
	}
	if n != 0 {
		t.Fatalf("second release published %d, want 0", n)
	}

	evals, _ := store.ListEvaluations(ctx, assessment.ProjectUROP, "2026-even")
	for _, e := range evals {
		if !e.IsPublished {
			t.Fatalf("evaluation %s not published after release", e.StudentID)
		}
	}
}

func TestGradeSoloRefreshesProjectType(t *testing.T) {
	wf, store := newTestWorkflow(
		openPhase(assessment.ProjectIDP, assessment.CLA1),
		openPhase(assessment.ProjectCapstone, assessment.CLA2),
	)
	ctx := context.Background()

	if _, err := wf.GradeSolo(ctx, "s1", assessment.ProjectIDP, assessment.CLA1, 10, ""); err != nil {
		t.Fatalf("first grade: %v", err)
	}
	// the student moved to a capstone project mid-term; later grades carry
	// the new project type onto the same evaluation
	if _, err := wf.GradeSolo(ctx, "s1", assessment.ProjectCapstone, assessment.CLA2, 20, ""); err != nil {
		t.Fatalf("second grade: %v", err)
	}

	e, err := store.GetEvaluation(ctx, "s1", "2026-even")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.ProjectType != assessment.ProjectCapstone {
		t.Fatalf("project type = %q, want %q after regrade", e.ProjectType, assessment.ProjectCapstone)
	}
	if !e.Component(assessment.CLA1).Graded() {
		t.Fatalf("earlier component lost on project type change")
	}
}

func TestReleaseScopedToProjectType(t *testing.T) {
	wf, store := newTestWorkflow(
		openPhase(assessment.ProjectUROP, assessment.CLA1),
		openPhase(assessment.ProjectIDP, assessment.CLA1),
	)
	ctx := context.Background()

	if _, err := wf.GradeSolo(ctx, "u1", assessment.ProjectUROP, assessment.CLA1, 12, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := wf.GradeSolo(ctx, "i1", assessment.ProjectIDP, assessment.CLA1, 12, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if n, _ := wf.ReleaseProjectType(ctx, assessment.ProjectUROP); n != 1 {
		t.Fatalf("published %d UROP evaluations, want 1", n)
	}
	other, _ := store.GetEvaluation(ctx, "i1", "2026-even")
	if other.IsPublished {
		t.Fatalf("IDP evaluation published by a UROP release")
	}
}
