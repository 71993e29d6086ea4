package event

import (
	"context"
	"errors"
)

var (
	// ErrQueueFull is returned by Enqueue when a bounded queue has no room.
	ErrQueueFull = errors.New("event queue is full")
	// ErrQueueClosed is returned once the queue will yield no more envelopes.
	ErrQueueClosed = errors.New("event queue is closed")
)

// Queue carries envelopes from publishers to the bus workers.
type Queue interface {
	// Enqueue must not block on consumers.
	Enqueue(ctx context.Context, env Envelope) error
	// Dequeue blocks until an envelope is available, ctx is done or the queue closes.
	Dequeue(ctx context.Context) (Envelope, error)
	Close() error
}

// drainer is implemented by queues whose pending envelopes die with the process.
type drainer interface {
	Drain() []Envelope
}
