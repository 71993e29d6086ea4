package event

import (
	"encoding/json"
	"testing"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockEvent struct {
	shared.BaseDomainEvent
	Units int `json:"units"`
}

func newStockEvent(eventType string, units int) *stockEvent {
	return &stockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Product", uuid.New(), shared.Principal{UserID: uuid.New()}),
		Units:           units,
	}
}

func TestEventSerializer_RoundTrip(t *testing.T) {
	s := NewEventSerializer()
	s.Register("StockMoved", &stockEvent{})

	original := newStockEvent("StockMoved", 7)
	env, err := s.Encode(original)
	require.NoError(t, err)
	assert.Equal(t, "StockMoved", env.Type)

	decoded, err := s.Decode(env)
	require.NoError(t, err)

	got, ok := decoded.(*stockEvent)
	require.True(t, ok)
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.AggID, got.AggID)
	assert.Equal(t, original.ActorID, got.ActorID)
	assert.Equal(t, 7, got.Units)
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
}

func TestEventSerializer_Decode_Errors(t *testing.T) {
	s := NewEventSerializer()
	s.Register("StockMoved", &stockEvent{})

	_, err := s.Decode(Envelope{Type: "Unknown", Payload: json.RawMessage(`{}`)})
	assert.ErrorContains(t, err, "unknown event type")

	_, err = s.Decode(Envelope{Type: "StockMoved", Payload: json.RawMessage(`{"units":"many"}`)})
	assert.ErrorContains(t, err, "unmarshal StockMoved")
}

func TestRegisterAllEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	for _, typ := range []string{
		trade.EventTypePurchaseOrderCreated,
		trade.EventTypePurchaseOrderUpdated,
		trade.EventTypePurchaseOrderReceived,
		trade.EventTypePurchaseOrderCancelled,
		trade.EventTypeSaleCreated,
		trade.EventTypeSaleUpdated,
		trade.EventTypeSaleCancelled,
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductLowStock,
	} {
		assert.True(t, s.IsRegistered(typ), typ)
	}
	assert.Len(t, s.RegisteredTypes(), 9)
}

func TestEventSerializer_PurchaseOrderEventKeepsMoney(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	in := &trade.PurchaseOrderCreatedEvent{PurchaseOrderEvent: trade.PurchaseOrderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypePurchaseOrderCreated, trade.AggregateTypePurchaseOrder, uuid.New(), shared.Principal{UserID: uuid.New()}),
		ProductName:     "Rice 5kg",
		Quantity:        10,
		TotalCost:       decimal.RequireFromString("1234.50"),
	}}

	env, err := s.Encode(in)
	require.NoError(t, err)
	out, err := s.Decode(env)
	require.NoError(t, err)

	got := out.(*trade.PurchaseOrderCreatedEvent)
	assert.Equal(t, "Rice 5kg", got.ProductName)
	assert.Equal(t, 10, got.Quantity)
	assert.True(t, got.TotalCost.Equal(decimal.RequireFromString("1234.5")))
}
