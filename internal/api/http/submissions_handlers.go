package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusforge/projectportal/internal/assessment"
	authmw "github.com/campusforge/projectportal/internal/auth/middleware"
	"github.com/campusforge/projectportal/internal/rbac"
	"github.com/campusforge/projectportal/internal/submission"
)

type submissionCard struct {
	submission.Submission
	// per-member grading status for the submission's own phase, so faculty
	// list cards can show a chip without a second round trip
	MemberStatus map[string]assessment.GradingStatus `json:"member_status"`
}

func isMember(s submission.Submission, studentID string) bool {
	for _, sid := range s.StudentIDs {
		if sid == studentID {
			return true
		}
	}
	return false
}

// GET /submissions?project_type=IDP&phase=CLA-2
// Callers with submission:view-all see everything; everyone else is scoped
// to submissions they are a member of.
func ListSubmissionsHandler(subs submission.Store, evals assessment.Store, term string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pt assessment.ProjectType
		if p := r.URL.Query().Get("project_type"); p != "" {
			var ok bool
			pt, ok = assessment.ParseProjectType(p)
			if !ok {
				http.Error(w, "bad project_type", http.StatusBadRequest)
				return
			}
		}
		var phase assessment.AssessmentType
		if p := r.URL.Query().Get("phase"); p != "" {
			var ok bool
			phase, ok = assessment.ParseAssessmentType(p)
			if !ok {
				http.Error(w, "bad phase", http.StatusBadRequest)
				return
			}
		}

		list, err := subs.ListSubmissions(r.Context(), pt, phase)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		viewAll := rbac.Allowed(r.Context(), "submission:view-all")
		subject := authmw.SubjectFromContext(r.Context())
		out := make([]submissionCard, 0, len(list))
		for _, s := range list {
			if !viewAll && !isMember(s, subject) {
				continue
			}
			card := submissionCard{Submission: s, MemberStatus: map[string]assessment.GradingStatus{}}
			for _, sid := range s.StudentIDs {
				e, err := evals.GetEvaluation(r.Context(), sid, term)
				if errors.Is(err, assessment.ErrEvaluationNotFound) {
					card.MemberStatus[sid] = assessment.StatusPending
					continue
				}
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				// the card only cares about this submission's phase
				card.MemberStatus[sid] = e.StatusFor(s.Phase)
			}
			out = append(out, card)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GET /submissions/{submissionID}
// Foreign submissions read as not-found for view-own callers, so their
// existence is not disclosed either.
func GetSubmissionHandler(subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "submissionID")
		s, err := subs.GetSubmission(r.Context(), id)
		if err != nil {
			if errors.Is(err, submission.ErrSubmissionNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !rbac.Allowed(r.Context(), "submission:view-all") &&
			!isMember(s, authmw.SubjectFromContext(r.Context())) {
			http.Error(w, submission.ErrSubmissionNotFound.Error(), http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(s)
	}
}
