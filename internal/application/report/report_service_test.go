package report

import (
	"context"
	"testing"

	"github.com/erp/backoffice/internal/domain/report"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository is a mock implementation of report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) UnitsSold(ctx context.Context, q report.Query) ([]report.UnitsSold, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.UnitsSold), args.Error(1)
}

func (m *MockReportRepository) SaleCounts(ctx context.Context, q report.Query) ([]report.OrderCount, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OrderCount), args.Error(1)
}

func (m *MockReportRepository) PurchaseOrderCounts(ctx context.Context, q report.Query) ([]report.OrderCount, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OrderCount), args.Error(1)
}

func (m *MockReportRepository) TopProducts(ctx context.Context, q report.Query, limit int) ([]report.ProductSales, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.ProductSales), args.Error(1)
}

func TestReportService_UnitsSold(t *testing.T) {
	repo := new(MockReportRepository)
	q := report.Query{Year: 2024}
	repo.On("UnitsSold", mock.Anything, q).Return([]report.UnitsSold{{Year: 2024, Month: 1, Units: 7}}, nil)

	svc := NewReportService(repo)
	units, err := svc.UnitsSold(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(7), units[0].Units)
}

func TestReportService_RejectsInvalidQuery(t *testing.T) {
	repo := new(MockReportRepository)
	svc := NewReportService(repo)
	month := 0

	_, err := svc.UnitsSold(context.Background(), report.Query{Year: 2024, Month: &month})
	assert.ErrorIs(t, err, shared.ErrValidationFailure)

	_, err = svc.OrderCounts(context.Background(), report.Query{})
	assert.ErrorIs(t, err, shared.ErrValidationFailure)

	repo.AssertNotCalled(t, "UnitsSold", mock.Anything, mock.Anything)
}

func TestReportService_OrderCounts(t *testing.T) {
	repo := new(MockReportRepository)
	q := report.Query{Year: 2024}
	repo.On("SaleCounts", mock.Anything, q).Return([]report.OrderCount{{Year: 2024, Month: 2, Status: "PENDING", Count: 3}}, nil)
	repo.On("PurchaseOrderCounts", mock.Anything, q).Return([]report.OrderCount{}, nil)

	svc := NewReportService(repo)
	resp, err := svc.OrderCounts(context.Background(), q)
	require.NoError(t, err)

	assert.Len(t, resp.Sales, 1)
	assert.Empty(t, resp.PurchaseOrders)
}

func TestReportService_TopProductsClampsLimit(t *testing.T) {
	repo := new(MockReportRepository)
	q := report.Query{Year: 2024}
	repo.On("TopProducts", mock.Anything, q, 10).Return([]report.ProductSales{}, nil).Once()
	repo.On("TopProducts", mock.Anything, q, 100).Return([]report.ProductSales{}, nil).Once()

	svc := NewReportService(repo)
	_, err := svc.TopProducts(context.Background(), q, 0)
	require.NoError(t, err)
	_, err = svc.TopProducts(context.Background(), q, 5000)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
