package persistence

import (
	"testing"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testPrincipal = shared.NewPrincipal(uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), "alice")

// setupTestDB opens a private in-memory sqlite database with the full schema.
// One connection keeps every statement on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := NewDatabaseFromDialector(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.AutoMigrate())
	return database.DB
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func newTestProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProductFromPurchase(uuid.New(),
		catalog.Descriptor{Name: "Widget", Category: "Phones", Specifications: "64GB"},
		uuid.Nil, stock, d("20"), testPrincipal)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}
