package notify

import (
	"context"
	"sync"
	"time"
)

// MemoryRecordStore is an in-memory RecordStore.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]DispatchRecord
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]DispatchRecord)}
}

func (s *MemoryRecordStore) Create(ctx context.Context, record DispatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	s.records[record.TaskID] = record
	return nil
}

func (s *MemoryRecordStore) UpdateOutcome(ctx context.Context, taskID, status, errMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[taskID]
	if !ok {
		return ErrRecordNotFound
	}
	record.Status = status
	record.Error = errMessage
	record.UpdatedAt = time.Now().UTC()
	s.records[taskID] = record
	return nil
}

func (s *MemoryRecordStore) GetByTaskID(ctx context.Context, taskID string) (DispatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return DispatchRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[taskID]
	if !ok {
		return DispatchRecord{}, ErrRecordNotFound
	}
	return record, nil
}

var _ RecordStore = (*MemoryRecordStore)(nil)
