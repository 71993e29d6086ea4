package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads a product with SELECT ... FOR UPDATE
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormProductRepository) find(db *gorm.DB, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFound(id, "product not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error
}

// SaveWithLock writes the mutable product columns if the stored version still
// matches product.Version, then advances the version on both sides.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]any{
			"name":           model.Name,
			"category_id":    model.CategoryID,
			"category":       model.Category,
			"specifications": model.Specifications,
			"stock":          model.Stock,
			"unit_price":     model.UnitPrice,
			"updated_by":     model.UpdatedBy,
			"updated_at":     model.UpdatedAt,
			"version":        product.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflict(product.ID)
	}

	product.IncrementVersion()
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
