package event

import (
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/trade"
)

// RegisterAllEvents registers every event the ledger publishes so queued
// envelopes can be decoded by the workers.
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(trade.EventTypePurchaseOrderCreated, &trade.PurchaseOrderCreatedEvent{})
	serializer.Register(trade.EventTypePurchaseOrderUpdated, &trade.PurchaseOrderUpdatedEvent{})
	serializer.Register(trade.EventTypePurchaseOrderReceived, &trade.PurchaseOrderReceivedEvent{})
	serializer.Register(trade.EventTypePurchaseOrderCancelled, &trade.PurchaseOrderCancelledEvent{})

	serializer.Register(trade.EventTypeSaleCreated, &trade.SaleCreatedEvent{})
	serializer.Register(trade.EventTypeSaleUpdated, &trade.SaleUpdatedEvent{})
	serializer.Register(trade.EventTypeSaleCancelled, &trade.SaleCancelledEvent{})

	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductLowStock, &catalog.ProductLowStockEvent{})
}
