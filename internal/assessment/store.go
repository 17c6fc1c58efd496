package assessment

import (
	"context"
	"sync"
)

// Store persists evaluations keyed by (student, term). The core treats it as
// simple get/put; last-writer-wins per record.
type Store interface {
	GetEvaluation(ctx context.Context, studentID, term string) (Evaluation, error)
	PutEvaluation(ctx context.Context, e Evaluation) error
	ListEvaluations(ctx context.Context, pt ProjectType, term string) ([]Evaluation, error)
}

// WindowSource supplies the window set for a project type. Backed by the
// windows table in production, by a fixture in tests.
type WindowSource interface {
	WindowsFor(ctx context.Context, pt ProjectType) ([]Window, error)
}

type memoryStore struct {
	mu    sync.RWMutex
	evals map[string]Evaluation // studentID|term
}

func NewInMemoryStore() Store {
	return &memoryStore{evals: map[string]Evaluation{}}
}

func evalKey(studentID, term string) string { return studentID + "|" + term }

func (m *memoryStore) GetEvaluation(_ context.Context, studentID, term string) (Evaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.evals[evalKey(studentID, term)]
	if !ok {
		return Evaluation{}, ErrEvaluationNotFound
	}
	return e, nil
}

func (m *memoryStore) PutEvaluation(_ context.Context, e Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evals[evalKey(e.StudentID, e.Term)] = e
	return nil
}

func (m *memoryStore) ListEvaluations(_ context.Context, pt ProjectType, term string) ([]Evaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Evaluation
	for _, e := range m.evals {
		if e.Term == term && (pt == "" || e.ProjectType == pt) {
			out = append(out, e)
		}
	}
	return out, nil
}
