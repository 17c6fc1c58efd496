package submission

import "github.com/campusforge/projectportal/internal/assessment"

// Type distinguishes one-student submissions from shared group ones.
type Type string

const (
	TypeSolo  Type = "solo"
	TypeGroup Type = "group"
)

// Artifact is an uploaded or linked deliverable attached to a submission.
// Kind is free-form from the submission subsystem; the portal uses "report",
// "presentation" and "link".
type Artifact struct {
	Kind string `json:"kind"`
	Key  string `json:"key,omitempty"` // blob store key for uploads
	URL  string `json:"url,omitempty"` // external link
}

// Submission is the gradable unit the portal consumes read-only. StudentIDs
// lists who is gradable for the phase: one entry for solo, the full roster
// for group submissions.
type Submission struct {
	ID          string                    `json:"id"`
	ProjectType assessment.ProjectType    `json:"project_type"`
	Type        Type                      `json:"submission_type"`
	GroupID     string                    `json:"group_id,omitempty"`
	Phase       assessment.AssessmentType `json:"phase"`
	StudentIDs  []string                  `json:"student_ids"`
	Artifacts   []Artifact                `json:"artifacts"`
	SubmittedAt int64                     `json:"submitted_at"`
}
