package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate loads a product and holds a row lock on it until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// SaveWithLock persists stock/price changes guarded by the version column
	SaveWithLock(ctx context.Context, product *Product) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindOrCreate returns the stored category with the same name, inserting
	// the given one when none exists
	FindOrCreate(ctx context.Context, category *ProductCategory) (*ProductCategory, error)
}
