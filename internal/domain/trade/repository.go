package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate loads an order and holds a row lock on it until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll lists orders, optionally filtered by status
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, int64, error)

	// ExistsActiveRestock reports whether a PENDING restock exists for the product
	ExistsActiveRestock(ctx context.Context, productID uuid.UUID) (bool, error)

	// Create inserts a new order
	Create(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock updates an order guarded by the version column
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByIDForUpdate loads a sale with its items and locks the sale row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll lists sales (without items), optionally filtered by status
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, int64, error)

	// Create inserts a sale and all of its items
	Create(ctx context.Context, sale *Sale) error

	// SaveWithLock updates the sale row guarded by the version column and
	// makes the stored item set match sale.Items
	SaveWithLock(ctx context.Context, sale *Sale) error
}

// PaymentMethodRepository resolves payment methods by name
type PaymentMethodRepository interface {
	FindOrCreate(ctx context.Context, method *PaymentMethod) (*PaymentMethod, error)
}

// DeliveryMediumRepository resolves delivery media by name
type DeliveryMediumRepository interface {
	FindOrCreate(ctx context.Context, medium *DeliveryMedium) (*DeliveryMedium, error)
}
