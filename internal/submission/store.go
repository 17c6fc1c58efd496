package submission

import (
	"context"
	"errors"
	"sync"

	"github.com/campusforge/projectportal/internal/assessment"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// Store is the read-mostly view of the external submission subsystem. Put
// exists for ingest and tests; the grading core never writes submissions.
type Store interface {
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissions(ctx context.Context, pt assessment.ProjectType, phase assessment.AssessmentType) ([]Submission, error)
	PutSubmission(ctx context.Context, s Submission) error
	AddArtifact(ctx context.Context, id string, a Artifact) (Submission, error)
}

type memoryStore struct {
	mu   sync.RWMutex
	subs map[string]Submission
}

func NewInMemoryStore() Store {
	return &memoryStore{subs: map[string]Submission{}}
}

func (m *memoryStore) GetSubmission(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subs[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	return s, nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, pt assessment.ProjectType, phase assessment.AssessmentType) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Submission
	for _, s := range m.subs {
		if pt != "" && s.ProjectType != pt {
			continue
		}
		if phase != "" && s.Phase != phase {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryStore) PutSubmission(_ context.Context, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[s.ID] = s
	return nil
}

func (m *memoryStore) AddArtifact(_ context.Context, id string, a Artifact) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return Submission{}, ErrSubmissionNotFound
	}
	s.Artifacts = append(s.Artifacts, a)
	m.subs[id] = s
	return s, nil
}
