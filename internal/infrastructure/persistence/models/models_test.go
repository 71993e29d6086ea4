package models

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableID(t *testing.T) {
	assert.Nil(t, NullableID(uuid.Nil))
	assert.Equal(t, uuid.Nil, IDOrNil(nil))

	id := uuid.New()
	assert.Equal(t, id, IDOrNil(NullableID(id)))
}

func TestPurchaseOrderModel_FromDomain(t *testing.T) {
	by := shared.NewPrincipal(uuid.New(), "alice")
	order, err := trade.NewPurchaseOrder(
		catalog.Descriptor{Name: "Widget", Category: "Phones"},
		uuid.New(), 10,
		trade.CostBreakdown{PurchasePrice: decimal.NewFromInt(100), Shipping: decimal.NewFromInt(10), Other: decimal.Zero},
		decimal.NewFromInt(20), uuid.New(), trade.PurchaseOrderStatusPending, by)
	require.NoError(t, err)
	order.CreatedAt = time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC)

	m := PurchaseOrderModelFromDomain(order)
	assert.Equal(t, 2024, m.PeriodYear)
	assert.Equal(t, 2, m.PeriodMonth)
	assert.Nil(t, m.ProductID, "new product orders store NULL product_id")
	assert.Equal(t, by.UserID, *m.AddedBy)

	back := m.ToDomain()
	assert.Equal(t, order.Cost, back.Cost)
	assert.Equal(t, order.Product, back.Product)
	assert.Empty(t, back.GetDomainEvents())
}

func TestSaleItemModelsFromDomain(t *testing.T) {
	sale, err := trade.NewSale(uuid.New(), uuid.Nil, uuid.Nil,
		trade.Payment{Status: trade.PaymentStatusPending, TotalPayable: decimal.NewFromInt(10), TotalDue: decimal.NewFromInt(10)},
		trade.SaleStatusPending, "", shared.NewPrincipal(uuid.New(), "alice"))
	require.NoError(t, err)
	_, err = sale.AddItem(trade.SaleLine{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(5)})
	require.NoError(t, err)
	sale.Items[0].SaleID = uuid.Nil

	items := SaleItemModelsFromDomain(sale)
	require.Len(t, items, 1)
	assert.Equal(t, sale.ID, items[0].SaleID)

	m := SaleModelFromDomain(sale)
	assert.Nil(t, m.PaymentMethodID)
	assert.Nil(t, m.DeliveryMediumID)
}
