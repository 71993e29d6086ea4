//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	financeapp "github.com/erp/backoffice/internal/application/finance"
	reportapp "github.com/erp/backoffice/internal/application/report"
	apptrade "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/domain/report"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clerk = shared.NewPrincipal(uuid.MustParse("00000000-0000-0000-0000-0000000000c1"), "clerk")

type ledger struct {
	db       *TestDB
	orders   *apptrade.PurchaseOrderService
	sales    *apptrade.SaleService
	products *apptrade.ProductService
	finance  *financeapp.FinanceService
	reports  *reportapp.ReportService
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	db := NewTestDB(t)
	scope := persistence.NewGormTransactionScope(db.DB)
	return &ledger{
		db:       db,
		orders:   apptrade.NewPurchaseOrderService(scope, persistence.NewGormPurchaseOrderRepository(db.DB), nil),
		sales:    apptrade.NewSaleService(scope, persistence.NewGormSaleRepository(db.DB), nil),
		products: apptrade.NewProductService(persistence.NewGormProductRepository(db.DB)),
		finance:  financeapp.NewFinanceService(persistence.NewGormFinanceQueryRepository(db.DB)),
		reports:  reportapp.NewReportService(persistence.NewGormReportRepository(db.DB)),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (l *ledger) stock(t *testing.T, ctx context.Context, name string, qty int) uuid.UUID {
	t.Helper()
	order, err := l.orders.Create(ctx, clerk, apptrade.CreatePurchaseOrderRequest{
		ProductName:   name,
		Category:      "Phones",
		Quantity:      qty,
		PurchasePrice: dec("100"),
		ShippingCost:  dec("10"),
		OtherCost:     dec("0"),
		SellingPrice:  dec("20"),
		Supplier:      apptrade.SupplierInput{Name: "Acme", Phone: "555-0100"},
		Status:        trade.PurchaseOrderStatusInStock,
	})
	require.NoError(t, err)

	var product models.ProductModel
	require.NoError(t, l.db.DB.Where("purchase_order_id = ?", order.ID).First(&product).Error)
	return product.ID
}

func sellRequest(productID uuid.UUID, qty int, payable string) apptrade.CreateSaleRequest {
	return apptrade.CreateSaleRequest{
		Customer:       apptrade.CustomerInput{Name: "Jane", Phone: "555-0199"},
		PaymentMethod:  "Cash",
		DeliveryMedium: "Courier",
		PaymentStatus:  trade.PaymentStatusCompleted,
		TotalPayable:   dec(payable),
		TotalDue:       dec("0"),
		Status:         trade.SaleStatusConfirmed,
		Items:          []apptrade.SaleItemInput{{ProductID: productID, Quantity: qty, UnitPrice: dec("20")}},
	}
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	productID := l.stock(t, ctx, "Widget", 10)

	const buyers = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		short     int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.sales.Create(ctx, clerk, sellRequest(productID, 3, "60"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrStockInsufficient):
				short++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, buyers-3, short)

	product, err := l.products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 1, product.Stock)
	assert.Equal(t, int64(3), l.db.Count(t, "sales"))
}

func TestConcurrentRestocksKeepOnePending(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	productID := l.stock(t, ctx, "Widget", 2)

	req := apptrade.CreateRestockRequest{
		ProductID:     productID,
		Quantity:      5,
		PurchasePrice: dec("50"),
		ShippingCost:  dec("5"),
		OtherCost:     dec("0"),
		SellingPrice:  dec("20"),
		Supplier:      apptrade.SupplierInput{Name: "Acme", Phone: "555-0100"},
		Status:        trade.PurchaseOrderStatusPending,
	}

	const clerks = 4
	errs := make(chan error, clerks)
	var wg sync.WaitGroup
	for i := 0; i < clerks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.orders.CreateRestock(ctx, clerk, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created int
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errors.Is(err, shared.ErrConflictActiveRestock), "got %v", err)
	}
	assert.Equal(t, 1, created)

	var pending int64
	require.NoError(t, l.db.DB.Model(&models.PurchaseOrderModel{}).
		Where("product_id = ? AND type = ? AND status = ?", productID, trade.PurchaseOrderTypeRestock, trade.PurchaseOrderStatusPending).
		Count(&pending).Error)
	assert.Equal(t, int64(1), pending)
}

func TestRestockReceiptAndCancellation(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	productID := l.stock(t, ctx, "Widget", 2)

	restock, err := l.orders.CreateRestock(ctx, clerk, apptrade.CreateRestockRequest{
		ProductID:     productID,
		Quantity:      5,
		PurchasePrice: dec("50"),
		ShippingCost:  dec("5"),
		OtherCost:     dec("0"),
		SellingPrice:  dec("25"),
		Supplier:      apptrade.SupplierInput{Name: "Acme", Phone: "555-0100"},
		Status:        trade.PurchaseOrderStatusPending,
	})
	require.NoError(t, err)

	received := trade.PurchaseOrderStatusInStock
	_, err = l.orders.Update(ctx, clerk, restock.ID, apptrade.UpdatePurchaseOrderRequest{Status: &received})
	require.NoError(t, err)

	product, err := l.products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, product.Stock)

	cancelled := trade.PurchaseOrderStatusCancelled
	_, err = l.orders.Update(ctx, clerk, restock.ID, apptrade.UpdatePurchaseOrderRequest{Status: &cancelled})
	assert.True(t, errors.Is(err, shared.ErrStateViolation))
	assert.Equal(t, int64(2), l.db.Count(t, "finance_records"))
}

func TestAggregatesOnPostgres(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	productID := l.stock(t, ctx, "Widget", 10) // expense 110
	_, err := l.sales.Create(ctx, clerk, sellRequest(productID, 4, "80"))
	require.NoError(t, err)
	cancelled, err := l.sales.Create(ctx, clerk, sellRequest(productID, 1, "20"))
	require.NoError(t, err)
	status := trade.SaleStatusCancelled
	_, err = l.sales.Update(ctx, clerk, cancelled.ID, apptrade.UpdateSaleRequest{Status: &status})
	require.NoError(t, err)

	summary, err := l.finance.Summary(ctx, &year, &month)
	require.NoError(t, err)
	assert.True(t, dec("110").Equal(summary.Expense), "expense %s", summary.Expense)
	assert.True(t, dec("80").Equal(summary.Revenue), "revenue %s", summary.Revenue)
	assert.True(t, dec("-30").Equal(summary.Profit))
	require.NotNil(t, summary.ROI)
	assert.True(t, dec("-27.27").Equal(*summary.ROI), "roi %s", summary.ROI)

	breakdown, err := l.finance.ProfitByYear(ctx, year)
	require.NoError(t, err)
	assert.Len(t, breakdown.Months, 12)

	units, err := l.reports.UnitsSold(ctx, report.Query{Year: year, Month: &month})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, int64(4), units[0].Units)

	top, err := l.reports.TopProducts(ctx, report.Query{Year: year}, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, productID, top[0].ProductID)
	assert.True(t, dec("80").Equal(top[0].Revenue))
}
