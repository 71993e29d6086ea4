package trade

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypePurchaseOrder names the purchase order aggregate in events
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderUpdated   = "PurchaseOrderUpdated"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
)

// PurchaseOrderEvent is the payload shared by all purchase order events
type PurchaseOrderEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID           `json:"order_id"`
	OrderType   PurchaseOrderType   `json:"order_type"`
	Status      PurchaseOrderStatus `json:"status"`
	ProductName string              `json:"product_name"`
	ProductID   uuid.UUID           `json:"product_id,omitempty"`
	SupplierID  uuid.UUID           `json:"supplier_id"`
	Quantity    int                 `json:"quantity"`
	TotalCost   decimal.Decimal     `json:"total_cost"`
}

func newPurchaseOrderEvent(eventType string, o *PurchaseOrder, by shared.Principal) PurchaseOrderEvent {
	return PurchaseOrderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePurchaseOrder, o.ID, by),
		OrderID:         o.ID,
		OrderType:       o.Type,
		Status:          o.Status,
		ProductName:     o.Product.Name,
		ProductID:       o.ProductID,
		SupplierID:      o.SupplierID,
		Quantity:        o.Quantity,
		TotalCost:       o.TotalCost(),
	}
}

// PurchaseOrderCreatedEvent is published when an order is placed
type PurchaseOrderCreatedEvent struct {
	PurchaseOrderEvent
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(o *PurchaseOrder, by shared.Principal) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{newPurchaseOrderEvent(EventTypePurchaseOrderCreated, o, by)}
}

// PurchaseOrderUpdatedEvent is published when a pending order is edited
type PurchaseOrderUpdatedEvent struct {
	PurchaseOrderEvent
}

// NewPurchaseOrderUpdatedEvent creates a new PurchaseOrderUpdatedEvent
func NewPurchaseOrderUpdatedEvent(o *PurchaseOrder, by shared.Principal) *PurchaseOrderUpdatedEvent {
	return &PurchaseOrderUpdatedEvent{newPurchaseOrderEvent(EventTypePurchaseOrderUpdated, o, by)}
}

// PurchaseOrderReceivedEvent is published when goods arrive in stock
type PurchaseOrderReceivedEvent struct {
	PurchaseOrderEvent
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(o *PurchaseOrder, by shared.Principal) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{newPurchaseOrderEvent(EventTypePurchaseOrderReceived, o, by)}
}

// PurchaseOrderCancelledEvent is published when a pending order is cancelled
type PurchaseOrderCancelledEvent struct {
	PurchaseOrderEvent
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(o *PurchaseOrder, by shared.Principal) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{newPurchaseOrderEvent(EventTypePurchaseOrderCancelled, o, by)}
}
