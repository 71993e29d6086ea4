package trade

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSale names the sale aggregate in events
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated   = "SaleCreated"
	EventTypeSaleUpdated   = "SaleUpdated"
	EventTypeSaleCancelled = "SaleCancelled"
)

// SaleEvent is the payload shared by all sale events
type SaleEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID       `json:"sale_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Status        SaleStatus      `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	TotalPayable  decimal.Decimal `json:"total_payable"`
	TotalDue      decimal.Decimal `json:"total_due"`
	ItemCount     int             `json:"item_count"`
}

func newSaleEvent(eventType string, s *Sale, by shared.Principal) SaleEvent {
	return SaleEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSale, s.ID, by),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		Status:          s.Status,
		PaymentStatus:   s.Payment.Status,
		TotalPayable:    s.Payment.TotalPayable,
		TotalDue:        s.Payment.TotalDue,
		ItemCount:       len(s.Items),
	}
}

// SaleCreatedEvent is published when a sale and its items are committed
type SaleCreatedEvent struct {
	SaleEvent
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale, by shared.Principal) *SaleCreatedEvent {
	return &SaleCreatedEvent{newSaleEvent(EventTypeSaleCreated, s, by)}
}

// SaleUpdatedEvent is published when a sale is edited
type SaleUpdatedEvent struct {
	SaleEvent
}

// NewSaleUpdatedEvent creates a new SaleUpdatedEvent
func NewSaleUpdatedEvent(s *Sale, by shared.Principal) *SaleUpdatedEvent {
	return &SaleUpdatedEvent{newSaleEvent(EventTypeSaleUpdated, s, by)}
}

// SaleCancelledEvent is published when a sale is cancelled
type SaleCancelledEvent struct {
	SaleEvent
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale, by shared.Principal) *SaleCancelledEvent {
	return &SaleCancelledEvent{newSaleEvent(EventTypeSaleCancelled, s, by)}
}
