package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/campusforge/projectportal/internal/auth/middleware"
	"github.com/campusforge/projectportal/internal/rbac"
	"github.com/campusforge/projectportal/internal/storage"
	"github.com/campusforge/projectportal/internal/submission"
)

// POST /assets/{submissionID}?kind=report|presentation
// Uploads are attached to their submission record so the faculty view can
// list them. Callers without submission:view-all may only upload to
// submissions they are a member of.
func UploadAssetHandler(bs storage.BlobStore, subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID := chi.URLParam(r, "submissionID")
		if !rbac.Allowed(r.Context(), "submission:view-all") {
			s, err := subs.GetSubmission(r.Context(), submissionID)
			if err != nil || !isMember(s, authmw.SubjectFromContext(r.Context())) {
				http.Error(w, submission.ErrSubmissionNotFound.Error(), http.StatusNotFound)
				return
			}
		}
		kind := r.URL.Query().Get("kind")
		if kind == "" {
			kind = "report"
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		name := path.Base(hdr.Filename)
		if name == "" || name == "." || name == "/" {
			name = "upload.bin"
		}
		key := "submissions/" + submissionID + "/" + kind + "-" + name
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := subs.AddArtifact(r.Context(), submissionID, submission.Artifact{Kind: kind, Key: key}); err != nil {
			http.Error(w, "attach artifact: "+err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key})
	}
}

// GET /assets/*  -> returns the blob at whatever follows /assets/
// view-own callers only reach keys under their own submissions.
func ServeAssetHandler(bs storage.BlobStore, subs submission.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		key = strings.TrimPrefix(key, "/")
		if !rbac.Allowed(r.Context(), "submission:view-all") {
			if err := requireOwnKey(r, subs, key); err != nil {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	}
}

// requireOwnKey resolves "submissions/<id>/..." keys back to their submission
// and checks the caller is on its roster. Anything else is foreign.
func requireOwnKey(r *http.Request, subs submission.Store, key string) error {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 3 || parts[0] != "submissions" {
		return errors.New("unscoped key")
	}
	s, err := subs.GetSubmission(r.Context(), parts[1])
	if err != nil {
		return err
	}
	if !isMember(s, authmw.SubjectFromContext(r.Context())) {
		return errors.New("not a member")
	}
	return nil
}
