package catalog

import (
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrincipal = shared.NewPrincipal(uuid.New(), "clerk")

func newTestProduct(t *testing.T, stock int) *Product {
	t.Helper()
	p, err := NewProductFromPurchase(
		uuid.New(),
		Descriptor{Name: "Desk Lamp", Category: "Lighting", Specifications: "LED, 9W"},
		uuid.New(),
		stock,
		decimal.NewFromInt(25),
		testPrincipal,
	)
	require.NoError(t, err)
	return p
}

func TestNewProductFromPurchase(t *testing.T) {
	t.Run("seeds stock and price from the order", func(t *testing.T) {
		orderID := uuid.New()
		p, err := NewProductFromPurchase(
			orderID,
			Descriptor{Name: "  Desk Lamp ", Category: "Lighting"},
			uuid.New(),
			10,
			decimal.NewFromInt(25),
			testPrincipal,
		)
		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp", p.Name)
		assert.Equal(t, 10, p.Stock)
		assert.True(t, p.UnitPrice.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, orderID, p.PurchaseOrderID)
		assert.Equal(t, testPrincipal.UserID, p.AddedBy)
		assert.Equal(t, 1, p.Version)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewProductFromPurchase(uuid.New(), Descriptor{Name: "x", Category: "y"}, uuid.New(), 0, decimal.NewFromInt(1), testPrincipal)
		assert.True(t, errors.Is(err, shared.ErrValidationFailure))
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		_, err := NewProductFromPurchase(uuid.New(), Descriptor{Name: "x", Category: "y"}, uuid.New(), 1, decimal.Zero, testPrincipal)
		assert.True(t, errors.Is(err, shared.ErrValidationFailure))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProductFromPurchase(uuid.New(), Descriptor{Name: " ", Category: "y"}, uuid.New(), 1, decimal.NewFromInt(1), testPrincipal)
		assert.Error(t, err)
	})
}

func TestProduct_DecreaseStock(t *testing.T) {
	t.Run("decrements when sufficient", func(t *testing.T) {
		p := newTestProduct(t, 10)
		require.NoError(t, p.DecreaseStock(3, testPrincipal))
		assert.Equal(t, 7, p.Stock)
	})

	t.Run("allows draining to zero", func(t *testing.T) {
		p := newTestProduct(t, 4)
		require.NoError(t, p.DecreaseStock(4, testPrincipal))
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("rejects shortfall without mutating", func(t *testing.T) {
		p := newTestProduct(t, 2)
		err := p.DecreaseStock(3, testPrincipal)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrStockInsufficient))
		assert.Equal(t, 2, p.Stock)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		p := newTestProduct(t, 2)
		assert.Error(t, p.DecreaseStock(0, testPrincipal))
	})
}

func TestProduct_IncreaseStock(t *testing.T) {
	p := newTestProduct(t, 7)
	require.NoError(t, p.IncreaseStock(3, testPrincipal))
	assert.Equal(t, 10, p.Stock)
	assert.Error(t, p.IncreaseStock(-1, testPrincipal))
	assert.Equal(t, 10, p.Stock)
}

func TestProduct_FlagLowStock(t *testing.T) {
	p := newTestProduct(t, 5)
	p.ClearDomainEvents()

	assert.False(t, p.FlagLowStock(4, testPrincipal))
	assert.False(t, p.FlagLowStock(0, testPrincipal))
	assert.True(t, p.FlagLowStock(5, testPrincipal))

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	low, ok := events[0].(*ProductLowStockEvent)
	require.True(t, ok)
	assert.Equal(t, 5, low.Stock)
}

func TestNewProductCategory(t *testing.T) {
	c, err := NewProductCategory("  Lighting ")
	require.NoError(t, err)
	assert.Equal(t, "Lighting", c.Name)

	_, err = NewProductCategory("")
	assert.Error(t, err)
}
