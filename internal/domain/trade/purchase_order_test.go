package trade

import (
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPrincipal  = shared.NewPrincipal(uuid.New(), "buyer")
	testSupplierID = uuid.New()
	testCategoryID = uuid.New()
	testDescriptor = catalog.Descriptor{Name: "Desk Lamp", Category: "Lighting", Specifications: "LED"}
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr[T any](v T) *T { return &v }

func newPendingOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	o, err := NewPurchaseOrder(testDescriptor, testCategoryID, 10,
		CostBreakdown{PurchasePrice: d(100), Shipping: d(10)}, d(25), testSupplierID,
		PurchaseOrderStatusPending, testPrincipal)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

// ==================== Status ====================

func TestPurchaseOrderStatus(t *testing.T) {
	tests := []struct {
		status   PurchaseOrderStatus
		valid    bool
		terminal bool
	}{
		{PurchaseOrderStatusPending, true, false},
		{PurchaseOrderStatusInStock, true, true},
		{PurchaseOrderStatusCancelled, true, true},
		{PurchaseOrderStatus("SHIPPED"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}

	assert.True(t, PurchaseOrderStatusPending.CanTransitionTo(PurchaseOrderStatusInStock))
	assert.True(t, PurchaseOrderStatusPending.CanTransitionTo(PurchaseOrderStatusCancelled))
	assert.False(t, PurchaseOrderStatusInStock.CanTransitionTo(PurchaseOrderStatusCancelled))
	assert.False(t, PurchaseOrderStatusCancelled.CanTransitionTo(PurchaseOrderStatusPending))
}

func TestCostBreakdown(t *testing.T) {
	t.Run("total sums all components", func(t *testing.T) {
		c := CostBreakdown{PurchasePrice: d(100), Shipping: d(10), Other: d(5)}
		assert.True(t, c.Total().Equal(d(115)))
		assert.NoError(t, c.Validate(uuid.Nil))
	})

	t.Run("rejects negative component", func(t *testing.T) {
		c := CostBreakdown{PurchasePrice: d(100), Shipping: d(-1)}
		assert.True(t, errors.Is(c.Validate(uuid.Nil), shared.ErrValidationFailure))
	})

	t.Run("rejects zero total", func(t *testing.T) {
		assert.Error(t, CostBreakdown{}.Validate(uuid.Nil))
	})

	t.Run("accepts zero components when total is positive", func(t *testing.T) {
		assert.NoError(t, CostBreakdown{Shipping: d(1)}.Validate(uuid.Nil))
	})
}

// ==================== Creation ====================

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates new product order", func(t *testing.T) {
		o, err := NewPurchaseOrder(testDescriptor, testCategoryID, 10,
			CostBreakdown{PurchasePrice: d(100), Shipping: d(10)}, d(25), testSupplierID,
			PurchaseOrderStatusInStock, testPrincipal)
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderTypeNewProduct, o.Type)
		assert.Equal(t, uuid.Nil, o.ProductID)
		assert.True(t, o.TotalCost().Equal(d(110)))
		assert.Equal(t, testPrincipal.UserID, o.AddedBy)
		assert.Equal(t, shared.PeriodOf(o.CreatedAt), o.Period())
		require.Len(t, o.GetDomainEvents(), 1)
		assert.Equal(t, EventTypePurchaseOrderCreated, o.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects cancelled at creation", func(t *testing.T) {
		_, err := NewPurchaseOrder(testDescriptor, testCategoryID, 10,
			CostBreakdown{PurchasePrice: d(100)}, d(25), testSupplierID,
			PurchaseOrderStatusCancelled, testPrincipal)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidationFailure))
		assert.Contains(t, err.Error(), "cancelled orders cannot be added")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewPurchaseOrder(testDescriptor, testCategoryID, 10,
			CostBreakdown{PurchasePrice: d(100)}, d(25), testSupplierID,
			PurchaseOrderStatus("LOST"), testPrincipal)
		assert.Error(t, err)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		cases := map[string]func() error{
			"zero quantity": func() error {
				_, err := NewPurchaseOrder(testDescriptor, testCategoryID, 0, CostBreakdown{PurchasePrice: d(1)}, d(2), testSupplierID, PurchaseOrderStatusPending, testPrincipal)
				return err
			},
			"zero selling price": func() error {
				_, err := NewPurchaseOrder(testDescriptor, testCategoryID, 1, CostBreakdown{PurchasePrice: d(1)}, d(0), testSupplierID, PurchaseOrderStatusPending, testPrincipal)
				return err
			},
			"missing supplier": func() error {
				_, err := NewPurchaseOrder(testDescriptor, testCategoryID, 1, CostBreakdown{PurchasePrice: d(1)}, d(2), uuid.Nil, PurchaseOrderStatusPending, testPrincipal)
				return err
			},
			"missing name": func() error {
				_, err := NewPurchaseOrder(catalog.Descriptor{Category: "x"}, testCategoryID, 1, CostBreakdown{PurchasePrice: d(1)}, d(2), testSupplierID, PurchaseOrderStatusPending, testPrincipal)
				return err
			},
		}
		for name, fn := range cases {
			t.Run(name, func(t *testing.T) {
				assert.True(t, errors.Is(fn(), shared.ErrValidationFailure))
			})
		}
	})
}

func TestNewRestockOrder(t *testing.T) {
	product, err := catalog.NewProductFromPurchase(uuid.New(), testDescriptor, testCategoryID, 5, d(25), testPrincipal)
	require.NoError(t, err)

	o, err := NewRestockOrder(product, 4, CostBreakdown{PurchasePrice: d(40)}, d(26), testSupplierID, PurchaseOrderStatusPending, testPrincipal)
	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderTypeRestock, o.Type)
	assert.Equal(t, product.ID, o.ProductID)
	assert.Equal(t, product.Name, o.Product.Name)
	assert.Equal(t, product.CategoryID, o.CategoryID)
	assert.True(t, o.IsRestock())

	_, err = NewRestockOrder(product, 4, CostBreakdown{PurchasePrice: d(40)}, d(26), testSupplierID, PurchaseOrderStatusCancelled, testPrincipal)
	assert.True(t, errors.Is(err, shared.ErrValidationFailure))

	_, err = NewRestockOrder(nil, 4, CostBreakdown{PurchasePrice: d(40)}, d(26), testSupplierID, PurchaseOrderStatusPending, testPrincipal)
	assert.Error(t, err)
}

// ==================== Update ====================

func TestPurchaseOrder_Apply(t *testing.T) {
	t.Run("unset fields fall back to stored values", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Apply(PurchaseOrderChanges{Shipping: ptr(d(20))}, testPrincipal))
		assert.Equal(t, 10, o.Quantity)
		assert.True(t, o.TotalCost().Equal(d(120)))
		assert.Equal(t, PurchaseOrderStatusPending, o.Status)
		require.Len(t, o.GetDomainEvents(), 1)
		assert.Equal(t, EventTypePurchaseOrderUpdated, o.GetDomainEvents()[0].EventType())
	})

	t.Run("transitions to in stock", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Apply(PurchaseOrderChanges{Status: ptr(PurchaseOrderStatusInStock)}, testPrincipal))
		assert.True(t, o.IsInStock())
		assert.Equal(t, EventTypePurchaseOrderReceived, o.GetDomainEvents()[0].EventType())
	})

	t.Run("transitions to cancelled", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Apply(PurchaseOrderChanges{Status: ptr(PurchaseOrderStatusCancelled)}, testPrincipal))
		assert.True(t, o.IsCancelled())
		assert.Equal(t, EventTypePurchaseOrderCancelled, o.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects updates once in stock", func(t *testing.T) {
		o := newPendingOrder(t)
		o.Status = PurchaseOrderStatusInStock
		err := o.Apply(PurchaseOrderChanges{Quantity: ptr(3)}, testPrincipal)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrStateViolation))
		assert.Equal(t, 10, o.Quantity)
	})

	t.Run("rejects updates once cancelled", func(t *testing.T) {
		o := newPendingOrder(t)
		o.Status = PurchaseOrderStatusCancelled
		err := o.Apply(PurchaseOrderChanges{Status: ptr(PurchaseOrderStatusPending)}, testPrincipal)
		assert.True(t, errors.Is(err, shared.ErrStateViolation))
	})

	t.Run("invalid merged cost leaves order untouched", func(t *testing.T) {
		o := newPendingOrder(t)
		err := o.Apply(PurchaseOrderChanges{PurchasePrice: ptr(d(-5)), Quantity: ptr(2)}, testPrincipal)
		assert.True(t, errors.Is(err, shared.ErrValidationFailure))
		assert.Equal(t, 10, o.Quantity)
		assert.True(t, o.TotalCost().Equal(d(110)))
	})

	t.Run("restock descriptor is locked", func(t *testing.T) {
		product, err := catalog.NewProductFromPurchase(uuid.New(), testDescriptor, testCategoryID, 5, d(25), testPrincipal)
		require.NoError(t, err)
		o, err := NewRestockOrder(product, 4, CostBreakdown{PurchasePrice: d(40)}, d(26), testSupplierID, PurchaseOrderStatusPending, testPrincipal)
		require.NoError(t, err)

		err = o.Apply(PurchaseOrderChanges{Product: &catalog.Descriptor{Name: "Other", Category: "Lighting"}}, testPrincipal)
		assert.True(t, errors.Is(err, shared.ErrValidationFailure))

		same := testDescriptor
		assert.NoError(t, o.Apply(PurchaseOrderChanges{Product: &same}, testPrincipal))
	})
}

func TestPurchaseOrder_VerifyRestockTarget(t *testing.T) {
	product, err := catalog.NewProductFromPurchase(uuid.New(), testDescriptor, testCategoryID, 5, d(25), testPrincipal)
	require.NoError(t, err)
	o, err := NewRestockOrder(product, 4, CostBreakdown{PurchasePrice: d(40)}, d(26), testSupplierID, PurchaseOrderStatusPending, testPrincipal)
	require.NoError(t, err)

	assert.NoError(t, o.VerifyRestockTarget(product.ID))
	assert.NoError(t, o.VerifyRestockTarget(uuid.Nil))
	assert.True(t, errors.Is(o.VerifyRestockTarget(uuid.New()), shared.ErrValidationFailure))

	assert.NoError(t, newPendingOrder(t).VerifyRestockTarget(uuid.New()))
}
