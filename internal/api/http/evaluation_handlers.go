package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusforge/projectportal/internal/assessment"
	authmw "github.com/campusforge/projectportal/internal/auth/middleware"
)

type evaluationRow struct {
	StudentID   string                   `json:"student_id"`
	ProjectType assessment.ProjectType   `json:"project_type"`
	GroupID     string                   `json:"group_id,omitempty"`
	Total       float64                  `json:"total"`
	Status      assessment.GradingStatus `json:"status"`
	IsPublished bool                     `json:"is_published"`
}

// GET /evaluations?project_type=IDP (faculty list view)
func ListEvaluationsHandler(store assessment.Store, term string) http.HandlerFunc {
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
		evals, err := store.ListEvaluations(r.Context(), pt, term)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]evaluationRow, 0, len(evals))
		for _, e := range evals {
			out = append(out, evaluationRow{
				StudentID:   e.StudentID,
				ProjectType: e.ProjectType,
				GroupID:     e.GroupID,
				Total:       e.Total,
				Status:      e.Status(),
				IsPublished: e.IsPublished,
			})
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GET /evaluations/{studentID} (faculty detail: full components)
func GetEvaluationHandler(store assessment.Store, term string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "studentID")
		e, err := store.GetEvaluation(r.Context(), studentID, term)
		if err != nil {
			if errors.Is(err, assessment.ErrEvaluationNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(e)
	}
}

type myEvaluationResp struct {
	Status      assessment.GradingStatus                    `json:"status"`
	IsPublished bool                                        `json:"is_published"`
	Total       *float64                                    `json:"total,omitempty"`
	Components  map[assessment.AssessmentType]componentView `json:"components,omitempty"`
}

type componentView struct {
	Conduct  float64 `json:"conduct"`
	Weighted float64 `json:"weighted"`
	Comments string  `json:"comments,omitempty"`
}

// GET /me/evaluation (student). Totals and per-component scores stay hidden
// until a coordinator releases the project type; before that the student
// only sees progress status.
func MyEvaluationHandler(store assessment.Store, term string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := authmw.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		e, err := store.GetEvaluation(r.Context(), studentID, term)
		if err != nil {
			if errors.Is(err, assessment.ErrEvaluationNotFound) {
				_ = json.NewEncoder(w).Encode(myEvaluationResp{Status: assessment.StatusPending})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		resp := myEvaluationResp{Status: e.Status(), IsPublished: e.IsPublished}
		if e.IsPublished {
			total := e.Total
			resp.Total = &total
			resp.Components = map[assessment.AssessmentType]componentView{}
			for _, t := range assessment.Sequence {
				c := e.Component(t)
				if !c.Graded() {
					continue
				}
				resp.Components[t] = componentView{
					Conduct:  c.Conduct,
					Weighted: assessment.Convert(c.Conduct, t),
					Comments: c.Comments,
				}
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
