package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM. Items are stored
// in sale_items and always replaced as a set.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return r.find(ctx, r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the sale row and loads its items
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return r.find(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormSaleRepository) find(ctx context.Context, db *gorm.DB, id uuid.UUID) (*trade.Sale, error) {
	var model models.SaleModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFound(id, "sale not found")
		}
		return nil, err
	}

	var items []models.SaleItemModel
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", id).
		Order("created_at, id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(items), nil
}

// FindAll lists sales without their items
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, int64, error) {
	filter = filter.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Scopes(withStatus(filter.Status)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SaleModel
	if err := r.db.WithContext(ctx).
		Scopes(withStatus(filter.Status)).
		Order(sortOrder(filter.OrderBy, filter.OrderDir, saleSortColumns)).
		Order("id").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	sales := make([]trade.Sale, len(rows))
	for i := range rows {
		sales[i] = *rows[i].ToDomain(nil)
	}
	return sales, total, nil
}

// Create inserts a sale and all of its items
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(models.SaleModelFromDomain(sale)).Error; err != nil {
		return err
	}
	return r.insertItems(db, sale)
}

// SaveWithLock updates the sale row under a version check and replaces its items
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *trade.Sale) error {
	model := models.SaleModelFromDomain(sale)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SaleModel{}).
			Where("id = ? AND version = ?", sale.ID, sale.Version).
			Updates(map[string]any{
				"customer_id":        model.CustomerID,
				"payment_method_id":  model.PaymentMethodID,
				"delivery_medium_id": model.DeliveryMediumID,
				"payment_status":     model.PaymentStatus,
				"total_payable":      model.TotalPayable,
				"total_due":          model.TotalDue,
				"status":             model.Status,
				"notes":              model.Notes,
				"updated_by":         model.UpdatedBy,
				"updated_at":         model.UpdatedAt,
				"version":            sale.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConcurrencyConflict(sale.ID)
		}

		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
		return r.insertItems(tx, sale)
	})
	if err != nil {
		return err
	}

	sale.IncrementVersion()
	return nil
}

func (r *GormSaleRepository) insertItems(db *gorm.DB, sale *trade.Sale) error {
	items := models.SaleItemModelsFromDomain(sale)
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
