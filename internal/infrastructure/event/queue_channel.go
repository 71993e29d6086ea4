package event

import (
	"context"
	"sync"
)

// DefaultChannelQueueSize is used when NewChannelQueue gets a non-positive size.
const DefaultChannelQueueSize = 256

// ChannelQueue is an in-process bounded queue.
type ChannelQueue struct {
	ch        chan Envelope
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelQueue creates a queue buffering up to size envelopes
func NewChannelQueue(size int) *ChannelQueue {
	if size <= 0 {
		size = DefaultChannelQueueSize
	}
	return &ChannelQueue{
		ch:   make(chan Envelope, size),
		done: make(chan struct{}),
	}
}

// Enqueue adds env or fails with ErrQueueFull when the buffer is exhausted.
func (q *ChannelQueue) Enqueue(_ context.Context, env Envelope) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.ch <- env:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *ChannelQueue) Dequeue(ctx context.Context) (Envelope, error) {
	select {
	case env := <-q.ch:
		return env, nil
	case <-q.done:
		return Envelope{}, ErrQueueClosed
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

// Drain removes and returns whatever is still buffered.
func (q *ChannelQueue) Drain() []Envelope {
	var out []Envelope
	for {
		select {
		case env := <-q.ch:
			out = append(out, env)
		default:
			return out
		}
	}
}

// Len reports the number of buffered envelopes
func (q *ChannelQueue) Len() int {
	return len(q.ch)
}

func (q *ChannelQueue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}

var (
	_ Queue   = (*ChannelQueue)(nil)
	_ drainer = (*ChannelQueue)(nil)
)
