package http

import (
	"encoding/json"
	"net/http"

	"github.com/campusforge/projectportal/internal/assessment"
	"github.com/campusforge/projectportal/internal/audit"
	authmw "github.com/campusforge/projectportal/internal/auth/middleware"
)

type releaseReq struct {
	ProjectType string `json:"project_type" validate:"required,oneof=IDP UROP CAPSTONE"`
}

// POST /evaluations/release (coordinator). Publishes every unpublished
// evaluation under the project type; re-running is a no-op reporting 0.
// This is the only path that makes totals visible to students.
func ReleaseHandler(wf *assessment.Workflow, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req releaseReq
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n, err := wf.ReleaseProjectType(r.Context(), assessment.ProjectType(req.ProjectType))
		if err != nil {
			// n evaluations were already published before the failure; the
			// operation is resumable, so report both.
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = log.Append(r.Context(), audit.TypePhaseReleased, req.ProjectType,
			authmw.SubjectFromContext(r.Context()), map[string]int{"published": n})
		_ = json.NewEncoder(w).Encode(map[string]int{"published": n})
	}
}
