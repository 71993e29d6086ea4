package persistence

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns is the whitelist of columns a list request may order by
type sortColumns map[string]struct{}

func columns(names ...string) sortColumns {
	s := make(sortColumns, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

var (
	purchaseOrderSortColumns = columns("created_at", "updated_at", "product_name", "quantity", "status", "selling_price")
	saleSortColumns          = columns("created_at", "updated_at", "status", "total_payable", "total_due")
)

// sortOrder builds the ORDER BY term for a list request. Columns outside the
// whitelist fall back to created_at; any direction other than asc is desc.
func sortOrder(field, dir string, allowed sortColumns) clause.OrderByColumn {
	name := strings.TrimSpace(field)
	if _, ok := allowed[name]; !ok {
		name = "created_at"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: name},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "asc"),
	}
}

// withStatus narrows a list query to one status; empty means all
func withStatus(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}
