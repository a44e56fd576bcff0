package queue

import (
	"context"
	"time"
)

// Client sends messages to a queue backend.
type Client interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Delivery is a received message plus the backend handle needed to delete it.
type Delivery struct {
	Handle string
	Body   string
}

// Consumer receives messages on the worker side. Delivery is at-least-once;
// Delete acknowledges a message so it is not redelivered (a no-op for
// backends that pop destructively).
type Consumer interface {
	Receive(ctx context.Context, wait time.Duration) ([]Delivery, error)
	Delete(ctx context.Context, handle string) error
}
