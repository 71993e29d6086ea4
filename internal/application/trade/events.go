package trade

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents hands the aggregates' pending events to the bus after commit.
// Delivery failures are logged only; the mutation has already succeeded.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	events := make([]shared.DomainEvent, 0)
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}

// discardEvents drops events of aggregates whose transaction rolled back
func discardEvents(aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg != nil {
			agg.ClearDomainEvents()
		}
	}
}

// errorCode returns the domain error code of err, or INTERNAL
func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL"
}
