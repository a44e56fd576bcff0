package notify

import (
	"context"
	"errors"
	"time"
)

// Dispatch outcomes. A record starts as enqueued when the email job is handed
// to the queue and moves to sent or failed when the worker attempts delivery.
const (
	StatusEnqueued = "enqueued"
	StatusSent     = "sent"
	StatusFailed   = "failed"
)

var ErrRecordNotFound = errors.New("dispatch record not found")

// DispatchRecord tracks one notification from enqueue to delivery outcome.
type DispatchRecord struct {
	TaskID    string
	ResumeID  string
	Recipient string
	Template  string
	Status    string
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordStore persists dispatch records.
type RecordStore interface {
	Create(ctx context.Context, record DispatchRecord) error
	UpdateOutcome(ctx context.Context, taskID, status, errMessage string) error
	GetByTaskID(ctx context.Context, taskID string) (DispatchRecord, error)
}
