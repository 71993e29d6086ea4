package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultWorkers        = 2
	defaultHandlerTimeout = 30 * time.Second
	dequeueErrorBackoff   = 500 * time.Millisecond
)

// AsyncEventBus publishes events onto a Queue and dispatches them to handlers
// from a pool of worker goroutines. Publish never fails the caller: encode and
// enqueue errors are logged and the event is dropped.
type AsyncEventBus struct {
	registry       *HandlerRegistry
	serializer     *EventSerializer
	queue          Queue
	logger         *zap.Logger
	workers        int
	handlerTimeout time.Duration

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// BusOption configures an AsyncEventBus
type BusOption func(*AsyncEventBus)

// WithWorkers sets the number of dispatch goroutines.
func WithWorkers(n int) BusOption {
	return func(b *AsyncEventBus) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithHandlerTimeout bounds a single handler invocation.
func WithHandlerTimeout(d time.Duration) BusOption {
	return func(b *AsyncEventBus) {
		if d > 0 {
			b.handlerTimeout = d
		}
	}
}

// NewAsyncEventBus creates a bus over queue. Events must be registered with
// serializer to be delivered.
func NewAsyncEventBus(queue Queue, serializer *EventSerializer, logger *zap.Logger, opts ...BusOption) *AsyncEventBus {
	b := &AsyncEventBus{
		registry:       NewHandlerRegistry(),
		serializer:     serializer,
		queue:          queue,
		logger:         logger,
		workers:        defaultWorkers,
		handlerTimeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish enqueues events and returns immediately.
func (b *AsyncEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		env, err := b.serializer.Encode(event)
		if err == nil {
			err = b.queue.Enqueue(ctx, env)
		}
		if err != nil {
			b.dropped.Add(1)
			b.logger.Error("Dropping event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.String("aggregate_id", event.AggregateID().String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, defaulting to handler.EventTypes().
func (b *AsyncEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *AsyncEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the workers. The workers outlive ctx; call Stop to end them.
func (b *AsyncEventBus) Start(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return errors.New("event bus already started")
	}

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work(workerCtx, i)
	}
	b.logger.Info("Event bus started", zap.Int("workers", b.workers))
	return nil
}

// Stop halts the workers, then delivers whatever an in-process queue still
// holds. It returns ctx.Err() if the workers do not finish in time.
func (b *AsyncEventBus) Stop(ctx context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return nil
	}
	b.cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("stop event bus: %w", ctx.Err())
	}

	if d, ok := b.queue.(drainer); ok {
		pending := d.Drain()
		for _, env := range pending {
			b.dispatch(ctx, env)
		}
		if len(pending) > 0 {
			b.logger.Info("Drained pending events", zap.Int("count", len(pending)))
		}
	}
	if err := b.queue.Close(); err != nil {
		return fmt.Errorf("close event queue: %w", err)
	}
	b.logger.Info("Event bus stopped", zap.Int64("dropped", b.dropped.Load()))
	return nil
}

// Dropped reports how many events could not be enqueued.
func (b *AsyncEventBus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *AsyncEventBus) work(ctx context.Context, id int) {
	defer b.wg.Done()
	for {
		env, err := b.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				return
			}
			b.logger.Warn("Dequeue failed", zap.Int("worker", id), zap.Error(err))
			select {
			case <-time.After(dequeueErrorBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}
		b.dispatch(ctx, env)
	}
}

func (b *AsyncEventBus) dispatch(ctx context.Context, env Envelope) {
	event, err := b.serializer.Decode(env)
	if err != nil {
		b.logger.Error("Cannot decode event", zap.String("event_type", env.Type), zap.Error(err))
		return
	}

	for _, handler := range b.registry.HandlersFor(event.EventType()) {
		if err := b.invoke(ctx, handler, event); err != nil {
			b.logger.Error("Handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *AsyncEventBus) invoke(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.handlerTimeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "event."+event.EventType(),
		telemetry.WithSpanKind(trace.SpanKindConsumer),
		telemetry.WithAttribute("event.id", event.EventID().String()),
		telemetry.WithAttribute("event.aggregate_id", event.AggregateID().String()),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		if err != nil {
			telemetry.RecordError(span, err)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*AsyncEventBus)(nil)
