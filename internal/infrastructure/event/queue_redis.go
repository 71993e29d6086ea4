package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultRedisQueueKey is the list that holds pending envelopes.
	DefaultRedisQueueKey = "backoffice:events"
	defaultPopTimeout    = time.Second
)

// RedisQueue keeps envelopes in a Redis list so pending notifications survive
// a restart and can be consumed by any instance. Producers LPUSH, workers BRPOP.
type RedisQueue struct {
	client     *redis.Client
	key        string
	popTimeout time.Duration
	closed     atomic.Bool
}

// RedisQueueOption configures a RedisQueue
type RedisQueueOption func(*RedisQueue)

// WithPopTimeout bounds each BRPOP so workers notice cancellation promptly.
func WithPopTimeout(d time.Duration) RedisQueueOption {
	return func(q *RedisQueue) {
		if d > 0 {
			q.popTimeout = d
		}
	}
}

// NewRedisQueue uses an existing client. The caller owns the client.
func NewRedisQueue(client *redis.Client, key string, opts ...RedisQueueOption) *RedisQueue {
	if key == "" {
		key = DefaultRedisQueueKey
	}
	q := &RedisQueue{client: client, key: key, popTimeout: defaultPopTimeout}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue pushes env onto the head of the list.
func (q *RedisQueue) Enqueue(ctx context.Context, env Envelope) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("push to %s: %w", q.key, err)
	}
	return nil
}

// Dequeue pops from the tail, polling with BRPOP until something arrives.
func (q *RedisQueue) Dequeue(ctx context.Context) (Envelope, error) {
	for {
		if q.closed.Load() {
			return Envelope{}, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return Envelope{}, err
		}

		res, err := q.client.BRPop(ctx, q.popTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Envelope{}, ctx.Err()
			}
			return Envelope{}, fmt.Errorf("pop from %s: %w", q.key, err)
		}

		// res is [key, value]
		var env Envelope
		if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
			return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
		}
		return env, nil
	}
}

// Len reports the number of pending envelopes.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Close stops the queue; the client stays open.
func (q *RedisQueue) Close() error {
	q.closed.Store(true)
	return nil
}

// NewRedisClient connects and pings a Redis server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

var _ Queue = (*RedisQueue)(nil)
