package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// Stock movement directions.
const (
	StockDirectionIn  = "in"
	StockDirectionOut = "out"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// LedgerMetrics counts purchase orders, sales, stock movements and rejected
// operations. All methods are safe to call concurrently.
type LedgerMetrics struct {
	purchaseOrders *Counter
	purchaseAmount *Histogram
	sales          *Counter
	saleAmount     *Histogram
	stockUnits     *Counter
	rejections     *Counter
}

// NewLedgerMetrics registers the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &LedgerMetrics{}
	var err error
	if m.purchaseOrders, err = NewCounter(meter, "backoffice_purchase_orders_total",
		"Purchase orders written, by type and resulting status", "{orders}"); err != nil {
		return nil, err
	}
	if m.purchaseAmount, err = NewHistogram(meter, "backoffice_purchase_order_cost",
		"Total cost of written purchase orders", "{currency}", AmountBuckets...); err != nil {
		return nil, err
	}
	if m.sales, err = NewCounter(meter, "backoffice_sales_total",
		"Sales written, by resulting status", "{sales}"); err != nil {
		return nil, err
	}
	if m.saleAmount, err = NewHistogram(meter, "backoffice_sale_payable",
		"Total payable of written sales", "{currency}", AmountBuckets...); err != nil {
		return nil, err
	}
	if m.stockUnits, err = NewCounter(meter, "backoffice_stock_units_moved_total",
		"Units moved in or out of product stock", "{units}"); err != nil {
		return nil, err
	}
	if m.rejections, err = NewCounter(meter, "backoffice_operations_rejected_total",
		"Operations rejected with a domain error", "{operations}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPurchaseOrder counts a committed purchase order write.
func (m *LedgerMetrics) RecordPurchaseOrder(ctx context.Context, orderType, status string, amount decimal.Decimal) {
	m.purchaseOrders.Inc(ctx, AttrOrderType.String(orderType), AttrStatus.String(status))
	m.purchaseAmount.Record(ctx, amount.InexactFloat64(), AttrOrderType.String(orderType))
}

// RecordSale counts a committed sale write.
func (m *LedgerMetrics) RecordSale(ctx context.Context, status string, amount decimal.Decimal) {
	m.sales.Inc(ctx, AttrStatus.String(status))
	m.saleAmount.Record(ctx, amount.InexactFloat64())
}

// RecordStockMovement adds units to the in or out movement counter. Zero is ignored.
func (m *LedgerMetrics) RecordStockMovement(ctx context.Context, direction string, units int) {
	if units <= 0 {
		return
	}
	m.stockUnits.Add(ctx, int64(units), AttrDirection.String(direction))
}

// RecordRejection counts an operation that failed with the given error code.
func (m *LedgerMetrics) RecordRejection(ctx context.Context, operation, code string) {
	m.rejections.Inc(ctx, AttrOperation.String(operation), AttrErrorCode.String(code))
}
