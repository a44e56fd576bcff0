package reports

import (
	"context"
	"sync"

	"recruit-backend/internal/scoring"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]scoring.Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]scoring.Report)}
}

func (s *MemoryStore) Save(ctx context.Context, resumeID string, report scoring.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[resumeID] = report
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, resumeID string) (scoring.Report, error) {
	if err := ctx.Err(); err != nil {
		return scoring.Report{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[resumeID]
	if !ok {
		return scoring.Report{}, ErrNotFound
	}
	return report, nil
}

var _ Store = (*MemoryStore)(nil)
