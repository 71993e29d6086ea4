package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/report"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFinanceQueryRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	records := NewGormFinanceRecordRepository(db)
	repo := NewGormFinanceQueryRepository(db)

	seed := []struct {
		recordType finance.RecordType
		period     shared.Period
		value      string
	}{
		{finance.RecordTypeExpense, shared.Period{Year: 2023, Month: 12}, "40"},
		{finance.RecordTypeExpense, shared.Period{Year: 2024, Month: 1}, "100"},
		{finance.RecordTypeExpense, shared.Period{Year: 2024, Month: 1}, "10.25"},
		{finance.RecordTypeExpense, shared.Period{Year: 2024, Month: 3}, "50"},
		{finance.RecordTypeSale, shared.Period{Year: 2024, Month: 1}, "300"},
	}
	for _, s := range seed {
		var r *finance.FinanceRecord
		var err error
		if s.recordType == finance.RecordTypeExpense {
			r, err = finance.NewExpenseRecord(uuid.New(), s.period, d(s.value))
		} else {
			r, err = finance.NewSaleRecord(uuid.New(), s.period, d(s.value))
		}
		require.NoError(t, err)
		require.NoError(t, records.Create(ctx, r))
	}

	t.Run("sums by scope", func(t *testing.T) {
		all, err := repo.Sum(ctx, finance.RecordTypeExpense, nil, nil)
		require.NoError(t, err)
		assert.True(t, d("200.25").Equal(all), all.String())

		year, err := repo.Sum(ctx, finance.RecordTypeExpense, ptr(2024), nil)
		require.NoError(t, err)
		assert.True(t, d("160.25").Equal(year), year.String())

		month, err := repo.Sum(ctx, finance.RecordTypeExpense, ptr(2024), ptr(1))
		require.NoError(t, err)
		assert.True(t, d("110.25").Equal(month), month.String())
	})

	t.Run("empty scope sums to zero", func(t *testing.T) {
		total, err := repo.Sum(ctx, finance.RecordTypeSale, ptr(1999), nil)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("monthly totals skip empty months", func(t *testing.T) {
		totals, err := repo.MonthlyTotals(ctx, finance.RecordTypeExpense, 2024)
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, 1, totals[0].Month)
		assert.True(t, d("110.25").Equal(totals[0].Amount))
		assert.Equal(t, 3, totals[1].Month)
	})

	t.Run("yearly totals", func(t *testing.T) {
		totals, err := repo.YearlyTotals(ctx, finance.RecordTypeExpense)
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, 2023, totals[0].Year)
		assert.Equal(t, 0, totals[0].Month)
		assert.Equal(t, 2024, totals[1].Year)
	})
}

func TestGormReportRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	sales := NewGormSaleRepository(db)
	orders := NewGormPurchaseOrderRepository(db)
	repo := NewGormReportRepository(db)

	widget := newTestProduct(t, 50)
	gadget := newTestProduct(t, 50)
	gadget.Name = "Gadget"
	require.NoError(t, products.Create(ctx, widget))
	require.NoError(t, products.Create(ctx, gadget))

	now := time.Now()
	period := shared.PeriodOf(now)

	kept := newTestSale(t,
		trade.SaleLine{ProductID: widget.ID, Quantity: 3, UnitPrice: d("20")},
		trade.SaleLine{ProductID: gadget.ID, Quantity: 5, UnitPrice: d("10")},
	)
	require.NoError(t, sales.Create(ctx, kept))

	cancelled := newTestSale(t, trade.SaleLine{ProductID: widget.ID, Quantity: 40, UnitPrice: d("20")})
	require.NoError(t, cancelled.Apply(trade.SaleChanges{Status: ptr(trade.SaleStatusCancelled)}, testPrincipal))
	require.NoError(t, sales.Create(ctx, cancelled))

	require.NoError(t, orders.Create(ctx, newTestOrder(t, trade.PurchaseOrderStatusPending)))
	require.NoError(t, orders.Create(ctx, newTestOrder(t, trade.PurchaseOrderStatusInStock)))
	require.NoError(t, orders.Create(ctx, newTestOrder(t, trade.PurchaseOrderStatusInStock)))

	monthQuery := report.Query{Year: period.Year, Month: ptr(period.Month)}

	t.Run("units sold exclude cancelled sales", func(t *testing.T) {
		rows, err := repo.UnitsSold(ctx, monthQuery)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(8), rows[0].Units)
		assert.Equal(t, period.Month, rows[0].Month)
	})

	t.Run("sale counts per status", func(t *testing.T) {
		rows, err := repo.SaleCounts(ctx, report.Query{Year: period.Year})
		require.NoError(t, err)
		counts := map[string]int64{}
		for _, r := range rows {
			counts[r.Status] = r.Count
		}
		assert.Equal(t, map[string]int64{"CANCELLED": 1, "PENDING": 1}, counts)
	})

	t.Run("purchase order counts per status", func(t *testing.T) {
		rows, err := repo.PurchaseOrderCounts(ctx, monthQuery)
		require.NoError(t, err)
		counts := map[string]int64{}
		for _, r := range rows {
			counts[r.Status] = r.Count
		}
		assert.Equal(t, map[string]int64{"IN_STOCK": 2, "PENDING": 1}, counts)
	})

	t.Run("top products by units", func(t *testing.T) {
		rows, err := repo.TopProducts(ctx, monthQuery, 10)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, gadget.ID, rows[0].ProductID)
		assert.Equal(t, "Gadget", rows[0].Name)
		assert.Equal(t, int64(5), rows[0].Units)
		assert.True(t, d("50").Equal(rows[0].Revenue), rows[0].Revenue.String())
		assert.Equal(t, widget.ID, rows[1].ProductID)

		limited, err := repo.TopProducts(ctx, monthQuery, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("other years are empty", func(t *testing.T) {
		rows, err := repo.UnitsSold(ctx, report.Query{Year: period.Year - 5})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
