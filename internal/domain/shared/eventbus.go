package shared

import "context"

// EventHandler reacts to published domain events. Handlers run after the
// producing transaction has committed, so a failing handler cannot undo a
// ledger write.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types to receive; empty means all.
	EventTypes() []string
}

// EventPublisher hands committed events to delivery. Publish must not wait
// for handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is a publisher with subscriptions and a worker lifecycle
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
