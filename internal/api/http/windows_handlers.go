package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campusforge/projectportal/internal/assessment"
	"github.com/campusforge/projectportal/internal/audit"
	authmw "github.com/campusforge/projectportal/internal/auth/middleware"
)

// GET /windows?project_type=IDP
func ListWindowsHandler(ws *assessment.SQLWindowStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var out []assessment.Window
		var err error
		if ptParam := r.URL.Query().Get("project_type"); ptParam != "" {
			pt, ok := assessment.ParseProjectType(ptParam)
			if !ok {
				http.Error(w, "bad project_type", http.StatusBadRequest)
				return
			}
			out, err = ws.WindowsFor(r.Context(), pt)
		} else {
			out, err = ws.ListAll(r.Context())
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []assessment.Window{}
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

type createWindowReq struct {
	WindowType     string `json:"window_type" validate:"required,oneof=proposal submission assessment"`
	ProjectType    string `json:"project_type" validate:"required,oneof=IDP UROP CAPSTONE"`
	AssessmentType string `json:"assessment_type" validate:"omitempty,oneof=CLA-1 CLA-2 CLA-3 External"`
	StartAt        int64  `json:"start_at" validate:"required"`
	EndAt          int64  `json:"end_at" validate:"required"`
}

// POST /windows (coordinator/admin). Window lifecycle belongs to admin
// tooling; the grading core only ever reads these.
func CreateWindowHandler(ws *assessment.SQLWindowStore, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWindowReq
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.EndAt < req.StartAt {
			http.Error(w, "end_at before start_at", http.StatusBadRequest)
			return
		}
		win := assessment.Window{
			ID:          uuid.NewString(),
			Type:        assessment.WindowType(req.WindowType),
			ProjectType: assessment.ProjectType(req.ProjectType),
			Assessment:  assessment.AssessmentType(req.AssessmentType),
			StartAt:     time.Unix(req.StartAt, 0).UTC(),
			EndAt:       time.Unix(req.EndAt, 0).UTC(),
		}
		if err := ws.PutWindow(r.Context(), win); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = log.Append(r.Context(), audit.TypeWindowCreated, win.ID,
			authmw.SubjectFromContext(r.Context()), win)
		_ = json.NewEncoder(w).Encode(win)
	}
}

// DELETE /windows/{windowID} (coordinator/admin)
func DeleteWindowHandler(ws *assessment.SQLWindowStore, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "windowID")
		if err := ws.DeleteWindow(r.Context(), id); err != nil {
			if errors.Is(err, assessment.ErrWindowNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = log.Append(r.Context(), audit.TypeWindowDeleted, id,
			authmw.SubjectFromContext(r.Context()), nil)
		w.WriteHeader(http.StatusNoContent)
	}
}
