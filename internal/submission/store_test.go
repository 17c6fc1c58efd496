package submission_test

import (
	"context"
	"errors"
	"testing"

	"github.com/campusforge/projectportal/internal/assessment"
	"github.com/campusforge/projectportal/internal/submission"
)

func TestListSubmissionsFilters(t *testing.T) {
	ctx := context.Background()
	st := submission.NewInMemoryStore()

	seed := []submission.Submission{
		{ID: "s1", ProjectType: assessment.ProjectIDP, Type: submission.TypeSolo, Phase: assessment.CLA1, StudentIDs: []string{"alice"}},
		{ID: "s2", ProjectType: assessment.ProjectIDP, Type: submission.TypeGroup, GroupID: "g1", Phase: assessment.CLA2, StudentIDs: []string{"bob", "carol"}},
		{ID: "s3", ProjectType: assessment.ProjectCapstone, Type: submission.TypeSolo, Phase: assessment.CLA1, StudentIDs: []string{"dave"}},
	}
	for _, s := range seed {
		if err := st.PutSubmission(ctx, s); err != nil {
			t.Fatalf("put %s: %v", s.ID, err)
		}
	}

	all, err := st.ListSubmissions(ctx, "", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list all: got %d, want 3", len(all))
	}

	idp, err := st.ListSubmissions(ctx, assessment.ProjectIDP, "")
	if err != nil {
		t.Fatalf("list IDP: %v", err)
	}
	if len(idp) != 2 {
		t.Fatalf("list IDP: got %d, want 2", len(idp))
	}

	cla1, err := st.ListSubmissions(ctx, assessment.ProjectIDP, assessment.CLA1)
	if err != nil {
		t.Fatalf("list IDP/CLA-1: %v", err)
	}
	if len(cla1) != 1 || cla1[0].ID != "s1" {
		t.Fatalf("list IDP/CLA-1: got %+v, want just s1", cla1)
	}
}

func TestAddArtifact(t *testing.T) {
	ctx := context.Background()
	st := submission.NewInMemoryStore()

	if err := st.PutSubmission(ctx, submission.Submission{
		ID: "s1", ProjectType: assessment.ProjectUROP, Type: submission.TypeSolo,
		Phase: assessment.CLA3, StudentIDs: []string{"alice"},
	}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := st.AddArtifact(ctx, "s1", submission.Artifact{Kind: "report", Key: "submissions/s1/report-final.pdf"})
	if err != nil {
		t.Fatalf("add artifact: %v", err)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].Kind != "report" {
		t.Fatalf("artifacts after add: %+v", got.Artifacts)
	}

	// attaching persists, not just the returned copy
	reread, err := st.GetSubmission(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(reread.Artifacts) != 1 {
		t.Fatalf("artifacts after reread: %+v", reread.Artifacts)
	}

	if _, err := st.AddArtifact(ctx, "nope", submission.Artifact{Kind: "link", URL: "https://example.com"}); !errors.Is(err, submission.ErrSubmissionNotFound) {
		t.Fatalf("add to missing submission: got %v, want ErrSubmissionNotFound", err)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	st := submission.NewInMemoryStore()
	if _, err := st.GetSubmission(context.Background(), "missing"); !errors.Is(err, submission.ErrSubmissionNotFound) {
		t.Fatalf("got %v, want ErrSubmissionNotFound", err)
	}
}
