package report

import (
	"context"

	"github.com/erp/backoffice/internal/domain/report"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
)

const (
	defaultTopProducts = 10
	maxTopProducts     = 100
)

// ReportService is the read-only reporting aggregator
type ReportService struct {
	repo report.Repository
}

// NewReportService creates a new ReportService
func NewReportService(repo report.Repository) *ReportService {
	return &ReportService{repo: repo}
}

// OrderCountsResponse groups order counts for sales and purchase orders
type OrderCountsResponse struct {
	Sales          []report.OrderCount `json:"sales"`
	PurchaseOrders []report.OrderCount `json:"purchase_orders"`
}

// UnitsSold returns units sold per month of the queried year or month
func (s *ReportService) UnitsSold(ctx context.Context, q report.Query) ([]report.UnitsSold, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UnitsSold(ctx, q)
}

// OrderCounts returns sale and purchase order counts per status and month
func (s *ReportService) OrderCounts(ctx context.Context, q report.Query) (*OrderCountsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "order_counts")
	defer span.End()

	if err := q.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.repo.SaleCounts(ctx, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	orders, err := s.repo.PurchaseOrderCounts(ctx, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &OrderCountsResponse{Sales: sales, PurchaseOrders: orders}, nil
}

// TopProducts ranks products by units sold; limit is clamped to 1..100
func (s *ReportService) TopProducts(ctx context.Context, q report.Query, limit int) ([]report.ProductSales, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	return s.repo.TopProducts(ctx, q, limit)
}
