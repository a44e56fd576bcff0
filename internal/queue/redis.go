package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "recruit:jobs"

// RedisQueue is a Redis list-backed queue. LPUSH on enqueue, BRPOP on
// receive; a popped message is gone, so Delete is a no-op.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue connects a queue to the given Redis instance.
func NewRedisQueue(addr, password string, db int) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisQueue{client: client, key: defaultRedisKey}
}

// NewRedisQueueWithClient wraps an existing client; tests use this with miniredis.
func NewRedisQueueWithClient(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisQueue{client: client, key: key}
}

// Enqueue pushes an encoded message onto the list.
func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode redis message: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

// Receive blocks up to wait for one message. An empty slice means the wait
// elapsed without work.
func (q *RedisQueue) Receive(ctx context.Context, wait time.Duration) ([]Delivery, error) {
	if wait <= 0 {
		wait = time.Second
	}
	res, err := q.client.BRPop(ctx, wait, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis brpop: %w", err)
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("redis brpop: unexpected reply length %d", len(res))
	}
	return []Delivery{{Body: res[1]}}, nil
}

// Delete is a no-op; BRPOP already removed the message.
func (q *RedisQueue) Delete(ctx context.Context, handle string) error {
	_ = ctx
	_ = handle
	return nil
}

// Ping verifies connectivity.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

var (
	_ Client   = (*RedisQueue)(nil)
	_ Consumer = (*RedisQueue)(nil)
)
