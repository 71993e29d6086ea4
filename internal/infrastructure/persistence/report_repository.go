package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/report"
	"github.com/erp/backoffice/internal/domain/trade"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository. Every query is scoped by
// the period columns copied onto sales and purchase orders at write time.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func periodScope(alias string, q report.Query) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(alias+".period_year = ?", q.Year)
		if q.Month != nil {
			db = db.Where(alias+".period_month = ?", *q.Month)
		}
		return db
	}
}

// UnitsSold sums sale item quantities per month, excluding cancelled sales
func (r *GormReportRepository) UnitsSold(ctx context.Context, q report.Query) ([]report.UnitsSold, error) {
	var rows []report.UnitsSold
	err := r.db.WithContext(ctx).
		Table("sale_items si").
		Select("s.period_year AS year, s.period_month AS month, COALESCE(SUM(si.quantity), 0) AS units").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.status <> ?", trade.SaleStatusCancelled).
		Scopes(periodScope("s", q)).
		Group("s.period_year, s.period_month").
		Order("s.period_year, s.period_month").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SaleCounts counts sales per month and status
func (r *GormReportRepository) SaleCounts(ctx context.Context, q report.Query) ([]report.OrderCount, error) {
	return r.countByStatus(ctx, "sales", q)
}

// PurchaseOrderCounts counts purchase orders per month and status
func (r *GormReportRepository) PurchaseOrderCounts(ctx context.Context, q report.Query) ([]report.OrderCount, error) {
	return r.countByStatus(ctx, "purchase_orders", q)
}

func (r *GormReportRepository) countByStatus(ctx context.Context, table string, q report.Query) ([]report.OrderCount, error) {
	var rows []report.OrderCount
	err := r.db.WithContext(ctx).
		Table(table+" o").
		Select("o.period_year AS year, o.period_month AS month, o.status AS status, COUNT(*) AS count").
		Scopes(periodScope("o", q)).
		Group("o.period_year, o.period_month, o.status").
		Order("o.period_year, o.period_month, o.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks products by units sold in non-cancelled sales, ties
// broken by name
func (r *GormReportRepository) TopProducts(ctx context.Context, q report.Query, limit int) ([]report.ProductSales, error) {
	var rows []report.ProductSales
	err := r.db.WithContext(ctx).
		Table("sale_items si").
		Select(`si.product_id AS product_id, p.name AS name,
			COALESCE(SUM(si.quantity), 0) AS units,
			COALESCE(SUM(si.quantity * si.unit_price), 0) AS revenue`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Joins("JOIN products p ON p.id = si.product_id").
		Where("s.status <> ?", trade.SaleStatusCancelled).
		Scopes(periodScope("s", q)).
		Group("si.product_id, p.name").
		Order("units DESC, p.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
