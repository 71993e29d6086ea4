package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinanceQueryRepository implements FinanceQueryRepository with
// SUM/GROUP BY queries over finance_records
type GormFinanceQueryRepository struct {
	db *gorm.DB
}

// NewGormFinanceQueryRepository creates a new GormFinanceQueryRepository
func NewGormFinanceQueryRepository(db *gorm.DB) *GormFinanceQueryRepository {
	return &GormFinanceQueryRepository{db: db}
}

type periodAmountRow struct {
	Year   int
	Month  int
	Amount decimal.Decimal
}

// Sum totals one record type over everything, a year, or one month of it
func (r *GormFinanceQueryRepository) Sum(ctx context.Context, recordType finance.RecordType, year, month *int) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.FinanceRecordModel{}).
		Select("COALESCE(SUM(value), 0) AS amount").
		Where("type = ?", recordType)
	if year != nil {
		query = query.Where("year = ?", *year)
		if month != nil {
			query = query.Where("month = ?", *month)
		}
	}

	var row periodAmountRow
	if err := query.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Amount, nil
}

// MonthlyTotals returns one entry per month of year that has records
func (r *GormFinanceQueryRepository) MonthlyTotals(ctx context.Context, recordType finance.RecordType, year int) ([]finance.PeriodAmount, error) {
	var rows []periodAmountRow
	if err := r.db.WithContext(ctx).
		Model(&models.FinanceRecordModel{}).
		Select("year, month, COALESCE(SUM(value), 0) AS amount").
		Where("type = ? AND year = ?", recordType, year).
		Group("year, month").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toPeriodAmounts(rows), nil
}

// YearlyTotals returns one entry per year that has records
func (r *GormFinanceQueryRepository) YearlyTotals(ctx context.Context, recordType finance.RecordType) ([]finance.PeriodAmount, error) {
	var rows []periodAmountRow
	if err := r.db.WithContext(ctx).
		Model(&models.FinanceRecordModel{}).
		Select("year, COALESCE(SUM(value), 0) AS amount").
		Where("type = ?", recordType).
		Group("year").
		Order("year ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toPeriodAmounts(rows), nil
}

func toPeriodAmounts(rows []periodAmountRow) []finance.PeriodAmount {
	out := make([]finance.PeriodAmount, len(rows))
	for i, row := range rows {
		out[i] = finance.PeriodAmount{Year: row.Year, Month: row.Month, Amount: row.Amount}
	}
	return out
}

// Ensure GormFinanceQueryRepository implements FinanceQueryRepository
var _ finance.FinanceQueryRepository = (*GormFinanceQueryRepository)(nil)
