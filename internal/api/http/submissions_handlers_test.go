package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/campusforge/projectportal/internal/api/http"
	"github.com/campusforge/projectportal/internal/assessment"
	authmw "github.com/campusforge/projectportal/internal/auth/middleware"
	"github.com/campusforge/projectportal/internal/rbac"
	"github.com/campusforge/projectportal/internal/storage"
	"github.com/campusforge/projectportal/internal/submission"
)

// asRole stamps the request context the way JWTMiddleware + AttachRoleFromDB
// would for an authenticated caller.
func asRole(r *http.Request, subject, role string) *http.Request {
	ctx := authmw.WithSubject(r.Context(), subject)
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

func seedSubmissions(t *testing.T) submission.Store {
	t.Helper()
	ctx := context.Background()
	subs := submission.NewInMemoryStore()
	for _, s := range []submission.Submission{
		{ID: "sub-mine", ProjectType: assessment.ProjectIDP, Type: submission.TypeSolo,
			Phase: assessment.CLA1, StudentIDs: []string{"alice"}},
		{ID: "sub-other", ProjectType: assessment.ProjectIDP, Type: submission.TypeSolo,
			Phase: assessment.CLA1, StudentIDs: []string{"someone-else"}},
	} {
		if err := subs.PutSubmission(ctx, s); err != nil {
			t.Fatalf("seed %s: %v", s.ID, err)
		}
	}
	return subs
}

func TestListSubmissionsScopedToOwn(t *testing.T) {
	subs := seedSubmissions(t)
	h := api.ListSubmissionsHandler(subs, assessment.NewInMemoryStore(), "2026-even")

	rec := httptest.NewRecorder()
	h(rec, asRole(httptest.NewRequest(http.MethodGet, "/submissions", nil), "alice", "student"))

	var got []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "sub-mine" {
		t.Fatalf("student list = %v, want only sub-mine", got)
	}

	// faculty keep the full view
	rec = httptest.NewRecorder()
	h(rec, asRole(httptest.NewRequest(http.MethodGet, "/submissions", nil), "prof", "faculty"))
	got = nil
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("faculty list = %v, want both submissions", got)
	}
}

func TestGetSubmissionHidesForeign(t *testing.T) {
	subs := seedSubmissions(t)
	r := chi.NewRouter()
	r.Get("/submissions/{submissionID}", api.GetSubmissionHandler(subs))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asRole(httptest.NewRequest(http.MethodGet, "/submissions/sub-other", nil), "alice", "student"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign submission: status %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asRole(httptest.NewRequest(http.MethodGet, "/submissions/sub-mine", nil), "alice", "student"))
	if rec.Code != http.StatusOK {
		t.Fatalf("own submission: status %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asRole(httptest.NewRequest(http.MethodGet, "/submissions/sub-other", nil), "prof", "faculty"))
	if rec.Code != http.StatusOK {
		t.Fatalf("faculty on foreign submission: status %d, want 200", rec.Code)
	}
}

func TestServeAssetScopedToOwn(t *testing.T) {
	subs := seedSubmissions(t)
	bs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	for _, key := range []string{
		"submissions/sub-mine/report-mine.pdf",
		"submissions/sub-other/report-other.pdf",
	} {
		if _, err := bs.Put(key, strings.NewReader("pdf bytes")); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	r := chi.NewRouter()
	r.Get("/assets/*", api.ServeAssetHandler(bs, subs))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asRole(httptest.NewRequest(http.MethodGet, "/assets/submissions/sub-other/report-other.pdf", nil), "alice", "student"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign artifact: status %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asRole(httptest.NewRequest(http.MethodGet, "/assets/submissions/sub-mine/report-mine.pdf", nil), "alice", "student"))
	if rec.Code != http.StatusOK {
		t.Fatalf("own artifact: status %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, asRole(httptest.NewRequest(http.MethodGet, "/assets/submissions/sub-other/report-other.pdf", nil), "prof", "faculty"))
	if rec.Code != http.StatusOK {
		t.Fatalf("faculty on foreign artifact: status %d, want 200", rec.Code)
	}
}
