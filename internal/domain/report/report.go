// Package report holds the read models of the reporting aggregator. Nothing
// here mutates orders, stock or finance records.
package report

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Query scopes a report to a year, or to one month of it
type Query struct {
	Year  int
	Month *int
}

// Validate checks the year and optional month
func (q Query) Validate() error {
	month := 1
	if q.Month != nil {
		month = *q.Month
	}
	_, err := shared.NewPeriod(q.Year, month)
	return err
}

// UnitsSold is the number of units sold in a month by non-cancelled sales
type UnitsSold struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Units int64 `json:"units"`
}

// OrderCount is the number of orders in a status in a month
type OrderCount struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ProductSales ranks a product by units sold
type ProductSales struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Units     int64           `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}
