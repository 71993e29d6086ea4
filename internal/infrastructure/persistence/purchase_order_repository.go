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

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads an order with SELECT ... FOR UPDATE
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPurchaseOrderRepository) find(db *gorm.DB, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFound(id, "purchase order not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders page by page, newest first unless the filter says otherwise
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	filter = filter.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Scopes(withStatus(filter.Status)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Scopes(withStatus(filter.Status)).
		Order(sortOrder(filter.OrderBy, filter.OrderDir, purchaseOrderSortColumns)).
		Order("id").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]trade.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// ExistsActiveRestock reports whether a PENDING restock exists for the product
func (r *GormPurchaseOrderRepository) ExistsActiveRestock(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("product_id = ? AND type = ? AND status = ?",
			productID, trade.PurchaseOrderTypeRestock, trade.PurchaseOrderStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new order. A pending restock that trips the partial unique
// index on product_id is reported as ConflictActiveRestock.
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Create(models.PurchaseOrderModelFromDomain(order)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && order.IsRestock() {
		return shared.NewConflictActiveRestock(order.ProductID).Wrap(err)
	}
	return err
}

// SaveWithLock updates an order if the stored version still matches
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *trade.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(order)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"product_name":   model.ProductName,
			"category":       model.Category,
			"specifications": model.Specifications,
			"category_id":    model.CategoryID,
			"quantity":       model.Quantity,
			"purchase_price": model.PurchasePrice,
			"shipping_cost":  model.ShippingCost,
			"other_cost":     model.OtherCost,
			"selling_price":  model.SellingPrice,
			"supplier_id":    model.SupplierID,
			"status":         model.Status,
			"product_id":     model.ProductID,
			"updated_by":     model.UpdatedBy,
			"updated_at":     model.UpdatedAt,
			"version":        order.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflict(order.ID)
	}

	order.IncrementVersion()
	return nil
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
