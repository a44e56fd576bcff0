package queue

import (
	"context"
	"sync"
	"time"
)

// MemoryQueue is an in-process queue used when no broker is configured
// (dev mode) and by tests. Safe for concurrent use.
type MemoryQueue struct {
	mu   sync.Mutex
	msgs []Message
}

// NewMemoryQueue constructs an empty MemoryQueue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends the message.
func (q *MemoryQueue) Enqueue(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msg)
	return nil
}

// Receive pops the oldest message without blocking.
func (q *MemoryQueue) Receive(ctx context.Context, wait time.Duration) ([]Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = wait
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.msgs) == 0 {
		return nil, nil
	}
	msg := q.msgs[0]
	q.msgs = q.msgs[1:]
	payload, err := EncodeMessage(msg)
	if err != nil {
		return nil, err
	}
	return []Delivery{{Body: string(payload)}}, nil
}

// Delete is a no-op; Receive pops destructively.
func (q *MemoryQueue) Delete(ctx context.Context, handle string) error {
	_ = ctx
	_ = handle
	return nil
}

// Pending returns a snapshot of queued messages, oldest first.
func (q *MemoryQueue) Pending() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Message, len(q.msgs))
	copy(out, q.msgs)
	return out
}

var (
	_ Client   = (*MemoryQueue)(nil)
	_ Consumer = (*MemoryQueue)(nil)
)
