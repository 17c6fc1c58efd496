package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusforge/projectportal/internal/assessment"
	"github.com/campusforge/projectportal/internal/audit"
	authmw "github.com/campusforge/projectportal/internal/auth/middleware"
)

type gradeSoloReq struct {
	StudentID      string  `json:"student_id" validate:"required"`
	ProjectType    string  `json:"project_type" validate:"required,oneof=IDP UROP CAPSTONE"`
	AssessmentType string  `json:"assessment_type" validate:"required"`
	Conduct        float64 `json:"conduct" validate:"gte=0"`
	Comments       string  `json:"comments"`
}

// POST /evaluations/solo (faculty)
func GradeSoloHandler(wf *assessment.Workflow, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeSoloReq
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e, err := wf.GradeSolo(r.Context(), req.StudentID,
			assessment.ProjectType(req.ProjectType),
			assessment.AssessmentType(req.AssessmentType),
			req.Conduct, req.Comments)
		if err != nil {
			writeGradingError(w, err)
			return
		}
		_ = log.Append(r.Context(), audit.TypeEvaluationGraded, req.StudentID,
			authmw.SubjectFromContext(r.Context()),
			map[string]any{"assessment_type": req.AssessmentType, "conduct": req.Conduct})
		_ = json.NewEncoder(w).Encode(e)
	}
}

type gradeGroupReq struct {
	ProjectType    string             `json:"project_type" validate:"required,oneof=IDP UROP CAPSTONE"`
	AssessmentType string             `json:"assessment_type" validate:"required"`
	Scores         map[string]float64 `json:"scores" validate:"required,min=1"`
	Comments       string             `json:"comments"`
}

type gradeGroupResp struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

// POST /evaluations/group/{groupID} (faculty). Per-member results, never
// all-or-nothing: one bad score must not block the rest of the group.
func GradeGroupHandler(wf *assessment.Workflow, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := chi.URLParam(r, "groupID")
		if groupID == "" {
			http.Error(w, "groupID required", http.StatusBadRequest)
			return
		}
		var req gradeGroupReq
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res := wf.GradeGroup(r.Context(), groupID,
			assessment.ProjectType(req.ProjectType),
			assessment.AssessmentType(req.AssessmentType),
			req.Scores, req.Comments)

		resp := gradeGroupResp{Succeeded: res.Succeeded, Failed: map[string]string{}}
		if resp.Succeeded == nil {
			resp.Succeeded = []string{}
		}
		for sid, err := range res.Failed {
			resp.Failed[sid] = err.Error()
		}
		_ = log.Append(r.Context(), audit.TypeGroupGraded, groupID,
			authmw.SubjectFromContext(r.Context()),
			map[string]any{"assessment_type": req.AssessmentType,
				"succeeded": len(resp.Succeeded), "failed": len(resp.Failed)})
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// writeGradingError maps the workflow's typed validation failures onto
// status codes; the UI turns these into inline field errors or toasts.
func writeGradingError(w http.ResponseWriter, err error) {
	var oor *assessment.ScoreOutOfRangeError
	var pna *assessment.PhaseNotActiveError
	var uc *assessment.UnknownComponentError
	switch {
	case errors.As(err, &oor):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &pna):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &uc):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
