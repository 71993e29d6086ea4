package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinanceRecordRepository implements FinanceRecordRepository using GORM
type GormFinanceRecordRepository struct {
	db *gorm.DB
}

// NewGormFinanceRecordRepository creates a new GormFinanceRecordRepository
func NewGormFinanceRecordRepository(db *gorm.DB) *GormFinanceRecordRepository {
	return &GormFinanceRecordRepository{db: db}
}

// FindByPurchaseOrder returns the EXPENSE record of an order
func (r *GormFinanceRecordRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (*finance.FinanceRecord, error) {
	return r.findOne(ctx, "purchase_order_id = ?", purchaseOrderID)
}

// FindBySale returns the SALE record of a sale
func (r *GormFinanceRecordRepository) FindBySale(ctx context.Context, saleID uuid.UUID) (*finance.FinanceRecord, error) {
	return r.findOne(ctx, "sale_id = ?", saleID)
}

func (r *GormFinanceRecordRepository) findOne(ctx context.Context, cond string, orderID uuid.UUID) (*finance.FinanceRecord, error) {
	var model models.FinanceRecordModel
	if err := r.db.WithContext(ctx).Where(cond, orderID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFound(orderID, "finance record not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod lists records of one type in one month, oldest first
func (r *GormFinanceRecordRepository) FindByPeriod(ctx context.Context, recordType finance.RecordType, year, month int) ([]finance.FinanceRecord, error) {
	var rows []models.FinanceRecordModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND year = ? AND month = ?", recordType, year, month).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]finance.FinanceRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// Create inserts a record. A second record for the same order means another
// writer got there first and is reported as a concurrency conflict.
func (r *GormFinanceRecordRepository) Create(ctx context.Context, record *finance.FinanceRecord) error {
	err := r.db.WithContext(ctx).Create(models.FinanceRecordModelFromDomain(record)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConcurrencyConflict(record.OrderID()).Wrap(err)
	}
	return err
}

// Save updates a record's value
func (r *GormFinanceRecordRepository) Save(ctx context.Context, record *finance.FinanceRecord) error {
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	result := r.db.WithContext(ctx).
		Model(&models.FinanceRecordModel{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"value":      record.Value,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFound(record.ID, "finance record not found")
	}
	return nil
}

// Delete removes a record
func (r *GormFinanceRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FinanceRecordModel{}, "id = ?", id).Error
}

// Ensure GormFinanceRecordRepository implements FinanceRecordRepository
var _ finance.FinanceRecordRepository = (*GormFinanceRecordRepository)(nil)
