package report

import "context"

// Repository answers the aggregate report queries
type Repository interface {
	// UnitsSold sums sale item quantities per month, excluding cancelled sales
	UnitsSold(ctx context.Context, q Query) ([]UnitsSold, error)

	// SaleCounts counts sales per month and status
	SaleCounts(ctx context.Context, q Query) ([]OrderCount, error)

	// PurchaseOrderCounts counts purchase orders per month and status
	PurchaseOrderCounts(ctx context.Context, q Query) ([]OrderCount, error)

	// TopProducts ranks products by units sold in non-cancelled sales
	TopProducts(ctx context.Context, q Query, limit int) ([]ProductSales, error)
}
