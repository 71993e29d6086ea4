package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderNotificationHandler mails staff about order lifecycle changes and
// low stock. It runs on the event bus workers, after the order committed.
type OrderNotificationHandler struct {
	mailer     Mailer
	recipients []string
	logger     *zap.Logger
}

// NewOrderNotificationHandler creates a handler that mails recipients
func NewOrderNotificationHandler(mailer Mailer, recipients []string, logger *zap.Logger) *OrderNotificationHandler {
	return &OrderNotificationHandler{
		mailer:     mailer,
		recipients: recipients,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{
		trade.EventTypePurchaseOrderCreated,
		trade.EventTypePurchaseOrderReceived,
		trade.EventTypePurchaseOrderCancelled,
		trade.EventTypeSaleCreated,
		trade.EventTypeSaleUpdated,
		trade.EventTypeSaleCancelled,
		catalog.EventTypeProductLowStock,
	}
}

// Handle renders the event and hands it to the mailer
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg, ok := Render(event)
	if !ok {
		h.logger.Debug("no notification for event", zap.String("event_type", event.EventType()))
		return nil
	}
	if len(h.recipients) == 0 {
		h.logger.Debug("notification skipped, no recipients configured",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}
	msg.To = h.recipients

	if err := h.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s notification: %w", event.EventType(), err)
	}

	h.logger.Info("notification sent",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.Int("recipients", len(msg.To)),
	)
	return nil
}

// Render builds the subject and body for a supported event
func Render(event shared.DomainEvent) (Message, bool) {
	switch e := event.(type) {
	case *trade.PurchaseOrderCreatedEvent:
		return purchaseOrderMessage("Purchase order placed", &e.PurchaseOrderEvent), true
	case *trade.PurchaseOrderReceivedEvent:
		return purchaseOrderMessage("Purchase order received", &e.PurchaseOrderEvent), true
	case *trade.PurchaseOrderCancelledEvent:
		return purchaseOrderMessage("Purchase order cancelled", &e.PurchaseOrderEvent), true
	case *trade.SaleCreatedEvent:
		return saleMessage("New sale", &e.SaleEvent), true
	case *trade.SaleUpdatedEvent:
		return saleMessage("Sale updated", &e.SaleEvent), true
	case *trade.SaleCancelledEvent:
		return saleMessage("Sale cancelled", &e.SaleEvent), true
	case *catalog.ProductLowStockEvent:
		return Message{
			Subject: fmt.Sprintf("Low stock: %s", e.Name),
			Body: fmt.Sprintf("Product %s (%s) has %d units left, at or below the threshold of %d.",
				e.Name, e.ProductID, e.Stock, e.Threshold),
		}, true
	}
	return Message{}, false
}

func purchaseOrderMessage(title string, e *trade.PurchaseOrderEvent) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", e.OrderID)
	fmt.Fprintf(&b, "Type: %s\n", e.OrderType)
	fmt.Fprintf(&b, "Status: %s\n", e.Status)
	fmt.Fprintf(&b, "Product: %s\n", e.ProductName)
	fmt.Fprintf(&b, "Quantity: %d\n", e.Quantity)
	fmt.Fprintf(&b, "Total cost: %s\n", e.TotalCost.StringFixed(2))
	return Message{
		Subject: fmt.Sprintf("%s: %s x%d", title, e.ProductName, e.Quantity),
		Body:    b.String(),
	}
}

func saleMessage(title string, e *trade.SaleEvent) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Sale: %s\n", e.SaleID)
	fmt.Fprintf(&b, "Status: %s\n", e.Status)
	fmt.Fprintf(&b, "Payment: %s\n", e.PaymentStatus)
	fmt.Fprintf(&b, "Total payable: %s\n", e.TotalPayable.StringFixed(2))
	fmt.Fprintf(&b, "Total due: %s\n", e.TotalDue.StringFixed(2))
	fmt.Fprintf(&b, "Items: %d\n", e.ItemCount)
	return Message{
		Subject: fmt.Sprintf("%s: %s", title, e.TotalPayable.StringFixed(2)),
		Body:    b.String(),
	}
}

// Ensure OrderNotificationHandler implements EventHandler
var _ shared.EventHandler = (*OrderNotificationHandler)(nil)
