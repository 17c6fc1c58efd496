package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/campusforge/projectportal/internal/assessment"
)

type phaseResp struct {
	Phase  *assessment.AssessmentType `json:"phase"` // null when no window is open
	Active bool                       `json:"active"`
}

// GET /phases/current?project_type=IDP&mode=grading|submission
// A closed window is a normal response, never an error.
func CurrentPhaseHandler(windows assessment.WindowSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pt, ok := assessment.ParseProjectType(r.URL.Query().Get("project_type"))
		if !ok {
			http.Error(w, "project_type required (IDP|UROP|CAPSTONE)", http.StatusBadRequest)
			return
		}
		mode := assessment.ModeGrading
		if m := r.URL.Query().Get("mode"); m != "" {
			mode, ok = assessment.ParsePhaseMode(m)
			if !ok {
				http.Error(w, "mode must be grading or submission", http.StatusBadRequest)
				return
			}
		}
		res, err := resolverFor(r, windows, pt)
		if err != nil {
			http.Error(w, "load windows: "+err.Error(), http.StatusInternalServerError)
			return
		}
		var resp phaseResp
		if ph, active := res.ResolvePhase(time.Now(), pt, mode); active {
			resp = phaseResp{Phase: &ph, Active: true}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// GET /phases/active?project_type=IDP
func ActivePhasesHandler(windows assessment.WindowSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pt, ok := assessment.ParseProjectType(r.URL.Query().Get("project_type"))
		if !ok {
			http.Error(w, "project_type required (IDP|UROP|CAPSTONE)", http.StatusBadRequest)
			return
		}
		res, err := resolverFor(r, windows, pt)
		if err != nil {
			http.Error(w, "load windows: "+err.Error(), http.StatusInternalServerError)
			return
		}
		phases := res.ActivePhases(time.Now(), pt)
		if phases == nil {
			phases = []assessment.AssessmentType{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"phases": phases})
	}
}

// GET /phases/next?student_id=s1
// Suggests the next step in the fixed sequence from what is already graded;
// works even when no window is open.
func NextPhaseHandler(store assessment.Store, term string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := r.URL.Query().Get("student_id")
		if studentID == "" {
			http.Error(w, "student_id required", http.StatusBadRequest)
			return
		}
		var completed []assessment.AssessmentType
		e, err := store.GetEvaluation(r.Context(), studentID, term)
		switch {
		case err == nil:
			completed = e.CompletedTypes()
		case errors.Is(err, assessment.ErrEvaluationNotFound):
			// nothing graded yet
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"next":      assessment.NextLogicalPhase(completed),
			"completed": completed,
		})
	}
}

func resolverFor(r *http.Request, windows assessment.WindowSource, pt assessment.ProjectType) (*assessment.Resolver, error) {
	ws, err := windows.WindowsFor(r.Context(), pt)
	if err != nil {
		return nil, err
	}
	return assessment.NewResolver(assessment.NewCatalog(ws)), nil
}
