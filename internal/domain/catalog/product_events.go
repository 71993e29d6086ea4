package catalog

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeProduct names the product aggregate in events
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated  = "ProductCreated"
	EventTypeProductLowStock = "ProductLowStock"
)

// ProductCreatedEvent is published when a purchase materializes a new product
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID `json:"product_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Stock           int       `json:"stock"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product, by shared.Principal) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, by),
		ProductID:       p.ID,
		Name:            p.Name,
		Category:        p.Category,
		Stock:           p.Stock,
		PurchaseOrderID: p.PurchaseOrderID,
	}
}

// ProductLowStockEvent is published when a sale leaves a product at or
// below the configured threshold
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(p *Product, threshold int, by shared.Principal) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, AggregateTypeProduct, p.ID, by),
		ProductID:       p.ID,
		Name:            p.Name,
		Stock:           p.Stock,
		Threshold:       threshold,
	}
}
