package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQueueWithClient(client, "test:jobs")
}

func TestRedisQueueEnqueueReceive(t *testing.T) {
	q := newTestRedisQueue(t)
	ctx := context.Background()

	first, err := NewMessage(KindParseResume, ParseResumePayload{ResumeID: "r-1", StorageKey: "k-1"})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	second, err := NewMessage(KindParseResume, ParseResumePayload{ResumeID: "r-2", StorageKey: "k-2"})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}

	if err := q.Enqueue(ctx, first); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Enqueue(ctx, second); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// FIFO: the first enqueued message comes out first.
	for i, wantID := range []string{first.TaskID, second.TaskID} {
		deliveries, err := q.Receive(ctx, time.Second)
		if err != nil {
			t.Fatalf("receive %d: %v", i, err)
		}
		if len(deliveries) != 1 {
			t.Fatalf("receive %d: got %d deliveries, want 1", i, len(deliveries))
		}
		msg, err := DecodeMessage([]byte(deliveries[0].Body))
		if err != nil {
			t.Fatalf("decode delivery %d: %v", i, err)
		}
		if msg.TaskID != wantID {
			t.Fatalf("delivery %d: got task %s, want %s", i, msg.TaskID, wantID)
		}
		if err := q.Delete(ctx, deliveries[0].Handle); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
}

func TestRedisQueueReceiveEmpty(t *testing.T) {
	q := newTestRedisQueue(t)

	deliveries, err := q.Receive(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("receive on empty queue: %v", err)
	}
	if len(deliveries) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(deliveries))
	}
}
