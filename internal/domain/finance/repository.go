package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceRecordRepository persists finance records. Lookups go through the
// (purchase_order_id), (sale_id) and (type, year, month) indexes.
type FinanceRecordRepository interface {
	// FindByPurchaseOrder returns the EXPENSE record of an order, or NotFound
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) (*FinanceRecord, error)

	// FindBySale returns the SALE record of a sale, or NotFound
	FindBySale(ctx context.Context, saleID uuid.UUID) (*FinanceRecord, error)

	// FindByPeriod lists records of one type in one month
	FindByPeriod(ctx context.Context, recordType RecordType, year, month int) ([]FinanceRecord, error)

	// Create inserts a record; a second record for the same order violates a
	// unique index
	Create(ctx context.Context, record *FinanceRecord) error

	// Save updates a record's value
	Save(ctx context.Context, record *FinanceRecord) error

	// Delete removes a record
	Delete(ctx context.Context, id uuid.UUID) error
}

// FinanceQueryRepository runs the aggregate queries behind the finance read API
type FinanceQueryRepository interface {
	// Sum totals one record type; nil year sums everything, nil month sums the year
	Sum(ctx context.Context, recordType RecordType, year, month *int) (decimal.Decimal, error)

	// MonthlyTotals returns one entry per month of year that has records
	MonthlyTotals(ctx context.Context, recordType RecordType, year int) ([]PeriodAmount, error)

	// YearlyTotals returns one entry per year that has records, Month = 0
	YearlyTotals(ctx context.Context, recordType RecordType) ([]PeriodAmount, error)
}
