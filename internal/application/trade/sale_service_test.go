package trade

import (
	"context"
	"testing"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateSaleRequest(items ...SaleItemInput) CreateSaleRequest {
	return CreateSaleRequest{
		Customer:       CustomerInput{Name: "Jane", Phone: "555-0199"},
		PaymentMethod:  "Cash",
		DeliveryMedium: "Courier",
		PaymentStatus:  trade.PaymentStatusCompleted,
		TotalPayable:   d("100"),
		TotalDue:       d("0"),
		Status:         trade.SaleStatusPending,
		Items:          items,
	}
}

func item(productID uuid.UUID, qty int, price string) SaleItemInput {
	return SaleItemInput{ProductID: productID, Quantity: qty, UnitPrice: d(price)}
}

// newStoredSale builds a PENDING sale whose items were already withdrawn
func newStoredSale(t *testing.T, lines ...trade.SaleLine) *trade.Sale {
	t.Helper()
	sale, err := trade.NewSale(testCustomerID, testPaymentMethodID, testDeliveryMediumID,
		trade.Payment{Status: trade.PaymentStatusCompleted, TotalPayable: d("100"), TotalDue: d("0")},
		trade.SaleStatusPending, "", testPrincipal)
	require.NoError(t, err)
	for _, line := range lines {
		_, err := sale.AddItem(line)
		require.NoError(t, err)
	}
	sale.ClearDomainEvents()
	return sale
}

func saleRecordFor(t *testing.T, sale *trade.Sale) *finance.FinanceRecord {
	t.Helper()
	record, err := finance.NewSaleRecord(sale.ID, sale.Period(), sale.Payment.TotalPayable)
	require.NoError(t, err)
	return record
}

func expectLocked(repos *testRepos, products ...*catalog.Product) {
	for _, p := range products {
		repos.products.On("FindByIDForUpdate", mock.Anything, p.ID).Return(p, nil).Once()
		repos.products.On("SaveWithLock", mock.Anything, p).Return(nil).Maybe()
	}
}

func TestSaleService_Create_WithdrawsStockAndRecordsRevenue(t *testing.T) {
	repos := newTestRepos()
	repos.expectReferenceData()
	publisher := new(MockEventPublisher)
	p1 := newStockedProduct(t, 5)
	p2 := newStockedProduct(t, 3)
	expectLocked(repos, p1, p2)

	repos.sales.On("Create", mock.Anything, mock.MatchedBy(func(s *trade.Sale) bool {
		return len(s.Items) == 2 && s.CustomerID == testCustomerID && s.PaymentMethodID == testPaymentMethodID
	})).Return(nil)
	repos.financeRecords.On("Create", mock.Anything, mock.MatchedBy(func(r *finance.FinanceRecord) bool {
		return r.Type == finance.RecordTypeSale && r.Value.Equal(d("100"))
	})).Return(nil)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		if len(events) != 2 {
			return false
		}
		low, ok := events[1].(*catalog.ProductLowStockEvent)
		return events[0].EventType() == trade.EventTypeSaleCreated && ok && low.ProductID == p2.ID
	})).Return(nil)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	svc.SetEventPublisher(publisher)
	svc.SetLowStockThreshold(1)

	resp, err := svc.Create(context.Background(), testPrincipal,
		newCreateSaleRequest(item(p1.ID, 2, "20"), item(p2.ID, 3, "20")))
	require.NoError(t, err)

	assert.Equal(t, 3, p1.Stock)
	assert.Equal(t, 0, p2.Stock)
	assert.Equal(t, 5, resp.TotalQuantity)
	assert.Len(t, resp.Items, 2)
	repos.products.AssertNumberOfCalls(t, "SaveWithLock", 2)
	repos.assertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSaleService_Create_InsufficientStockLeavesNoTrace(t *testing.T) {
	repos := newTestRepos()
	repos.expectReferenceData()
	p1 := newStockedProduct(t, 5)
	p2 := newStockedProduct(t, 1)
	expectLocked(repos, p1, p2)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	_, err := svc.Create(context.Background(), testPrincipal,
		newCreateSaleRequest(item(p1.ID, 2, "20"), item(p2.ID, 3, "20")))

	require.ErrorIs(t, err, shared.ErrStockInsufficient)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, p2.ID.String(), domainErr.ID)
	assert.Equal(t, 1, p2.Stock)
	repos.products.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	repos.sales.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.financeRecords.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleService_Create_UnknownProduct(t *testing.T) {
	repos := newTestRepos()
	repos.expectReferenceData()
	missing := uuid.New()
	repos.products.On("FindByIDForUpdate", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	_, err := svc.Create(context.Background(), testPrincipal, newCreateSaleRequest(item(missing, 1, "20")))

	assert.ErrorIs(t, err, shared.ErrNotFound)
	repos.sales.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleService_Create_RejectedBeforeStockIsTouched(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*CreateSaleRequest)
	}{
		{"cancelled status", func(r *CreateSaleRequest) { r.Status = trade.SaleStatusCancelled }},
		{"partial payment fully due", func(r *CreateSaleRequest) {
			r.PaymentStatus = trade.PaymentStatusPartial
			r.TotalDue = r.TotalPayable
		}},
		{"completed payment with balance", func(r *CreateSaleRequest) { r.TotalDue = d("1") }},
		{"no items", func(r *CreateSaleRequest) { r.Items = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := newTestRepos()
			repos.expectReferenceData()
			req := newCreateSaleRequest(item(productID, 1, "20"))
			tt.mutate(&req)

			svc := NewSaleService(repos.scope(), repos.sales, nil)
			_, err := svc.Create(context.Background(), testPrincipal, req)

			assert.ErrorIs(t, err, shared.ErrValidationFailure)
			repos.products.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
		})
	}
}

func TestSaleService_Update_CancelRestoresStock(t *testing.T) {
	repos := newTestRepos()
	p1 := newStockedProduct(t, 3)
	p2 := newSoldOutProduct(t)
	sale := newStoredSale(t,
		trade.SaleLine{ProductID: p1.ID, Quantity: 2, UnitPrice: d("20")},
		trade.SaleLine{ProductID: p2.ID, Quantity: 3, UnitPrice: d("20")},
	)
	record := saleRecordFor(t, sale)
	expectLocked(repos, p1, p2)

	repos.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil)
	repos.sales.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(s *trade.Sale) bool {
		return s.IsCancelled() && len(s.Items) == 0
	})).Return(nil)
	repos.financeRecords.On("FindBySale", mock.Anything, sale.ID).Return(record, nil)
	repos.financeRecords.On("Delete", mock.Anything, record.ID).Return(nil)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	resp, err := svc.Update(context.Background(), testPrincipal, sale.ID, UpdateSaleRequest{
		Status: ptr(trade.SaleStatusCancelled),
	})
	require.NoError(t, err)

	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Equal(t, 5, p1.Stock)
	assert.Equal(t, 3, p2.Stock)
	assert.Empty(t, resp.Items)
	repos.assertExpectations(t)
}

func TestSaleService_Update_CancelledSaleRejected(t *testing.T) {
	repos := newTestRepos()
	sale := newStoredSale(t)
	sale.Status = trade.SaleStatusCancelled
	repos.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	_, err := svc.Update(context.Background(), testPrincipal, sale.ID, UpdateSaleRequest{
		Status: ptr(trade.SaleStatusPending),
	})

	assert.ErrorIs(t, err, shared.ErrStateViolation)
	repos.financeRecords.AssertNotCalled(t, "FindBySale", mock.Anything, mock.Anything)
}

func TestSaleService_Update_ReplacesChangedItems(t *testing.T) {
	repos := newTestRepos()
	p1 := newStockedProduct(t, 3)
	p2 := newStockedProduct(t, 3)
	sale := newStoredSale(t, trade.SaleLine{ProductID: p1.ID, Quantity: 2, UnitPrice: d("20")})
	record := saleRecordFor(t, sale)
	expectLocked(repos, p1, p2)

	repos.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil)
	repos.sales.On("SaveWithLock", mock.Anything, sale).Return(nil)
	repos.financeRecords.On("FindBySale", mock.Anything, sale.ID).Return(record, nil)
	repos.financeRecords.On("Save", mock.Anything, mock.MatchedBy(func(r *finance.FinanceRecord) bool {
		return r.Value.Equal(d("60"))
	})).Return(nil)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	resp, err := svc.Update(context.Background(), testPrincipal, sale.ID, UpdateSaleRequest{
		TotalPayable: ptr(d("60")),
		Items:        []SaleItemInput{item(p1.ID, 1, "20"), item(p2.ID, 2, "20")},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, p1.Stock)
	assert.Equal(t, 1, p2.Stock)
	assert.Equal(t, 3, resp.TotalQuantity)
	repos.assertExpectations(t)
}

func TestSaleService_Update_SameItemsOnlyTouchScalars(t *testing.T) {
	repos := newTestRepos()
	repos.expectReferenceData()
	p1, p2 := uuid.New(), uuid.New()
	sale := newStoredSale(t,
		trade.SaleLine{ProductID: p1, Quantity: 2, UnitPrice: d("20")},
		trade.SaleLine{ProductID: p2, Quantity: 1, UnitPrice: d("10")},
	)
	record := saleRecordFor(t, sale)

	repos.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil)
	repos.sales.On("SaveWithLock", mock.Anything, sale).Return(nil)
	repos.financeRecords.On("FindBySale", mock.Anything, sale.ID).Return(record, nil)
	repos.financeRecords.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	resp, err := svc.Update(context.Background(), testPrincipal, sale.ID, UpdateSaleRequest{
		Status:        ptr(trade.SaleStatusConfirmed),
		PaymentMethod: ptr("Card"),
		Notes:         ptr("leave at door"),
		Items:         []SaleItemInput{item(p2, 1, "10"), item(p1, 2, "20")},
	})
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "leave at door", resp.Notes)
	assert.Equal(t, testPaymentMethodID, resp.PaymentMethodID)
	repos.products.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	repos.assertExpectations(t)
}

func TestSaleService_Update_ShortfallAbortsWholeDiff(t *testing.T) {
	repos := newTestRepos()
	p1 := newSoldOutProduct(t)
	sale := newStoredSale(t, trade.SaleLine{ProductID: p1.ID, Quantity: 2, UnitPrice: d("20")})
	expectLocked(repos, p1)

	repos.sales.On("FindByIDForUpdate", mock.Anything, sale.ID).Return(sale, nil)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	_, err := svc.Update(context.Background(), testPrincipal, sale.ID, UpdateSaleRequest{
		Items: []SaleItemInput{item(p1.ID, 5, "20")},
	})

	assert.ErrorIs(t, err, shared.ErrStockInsufficient)
	repos.products.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	repos.sales.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestSaleService_Update_EmptyItemListRejected(t *testing.T) {
	repos := newTestRepos()
	svc := NewSaleService(repos.scope(), repos.sales, nil)

	_, err := svc.Update(context.Background(), testPrincipal, uuid.New(), UpdateSaleRequest{
		Items: []SaleItemInput{},
	})
	assert.ErrorIs(t, err, shared.ErrValidationFailure)
	repos.sales.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestSaleService_Update_UnknownSale(t *testing.T) {
	repos := newTestRepos()
	id := uuid.New()
	repos.sales.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.NewNotFound(id, "sale not found"))

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	_, err := svc.Update(context.Background(), testPrincipal, id, UpdateSaleRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSaleService_GetByID(t *testing.T) {
	repos := newTestRepos()
	sale := newStoredSale(t, trade.SaleLine{ProductID: uuid.New(), Quantity: 2, UnitPrice: d("20")})
	repos.sales.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

	svc := NewSaleService(repos.scope(), repos.sales, nil)
	resp, err := svc.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Amount.Equal(d("40")))
}
