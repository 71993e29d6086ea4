package trade

import (
	"sort"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the order status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusConfirmed SaleStatus = "CONFIRMED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusConfirmed, SaleStatusCancelled:
		return true
	}
	return false
}

// IsMutable reports whether a sale in this status can still be edited.
// PENDING and CONFIRMED convert freely into each other.
func (s SaleStatus) IsMutable() bool {
	return s == SaleStatusPending || s == SaleStatusConfirmed
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// PaymentStatus represents how much of a sale has been paid
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPartial   PaymentStatus = "PARTIAL"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusCompleted:
		return true
	}
	return false
}

// Payment holds a sale's monetary terms
type Payment struct {
	Status       PaymentStatus
	TotalPayable decimal.Decimal
	TotalDue     decimal.Decimal
}

// Validate enforces PARTIAL ⇒ due < payable and COMPLETED ⇒ due = 0
func (p Payment) Validate(saleID uuid.UUID) error {
	if !p.Status.IsValid() {
		return shared.NewValidationFailure(saleID, "invalid payment status %q", p.Status)
	}
	if p.TotalPayable.IsNegative() {
		return shared.NewValidationFailure(saleID, "total payable cannot be negative")
	}
	if p.TotalDue.IsNegative() {
		return shared.NewValidationFailure(saleID, "total due cannot be negative")
	}
	switch p.Status {
	case PaymentStatusPartial:
		if !p.TotalDue.LessThan(p.TotalPayable) {
			return shared.NewValidationFailure(saleID, "partial payment requires total due to be less than total payable")
		}
	case PaymentStatusCompleted:
		if !p.TotalDue.IsZero() {
			return shared.NewValidationFailure(saleID, "completed payment requires total due to be zero")
		}
	}
	return nil
}

// SaleItem is one product line of a sale. It cannot outlive its sale.
type SaleItem struct {
	ID        uuid.UUID
	SaleID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// SaleLine is a requested item before it is staged on a sale
type SaleLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Validate checks quantity ≥ 1 and unit price ≥ 0
func (l SaleLine) Validate() error {
	if l.ProductID == uuid.Nil {
		return shared.NewValidationFailure(uuid.Nil, "sale item requires a product")
	}
	if l.Quantity < 1 {
		return shared.NewValidationFailure(l.ProductID, "sale item quantity must be at least 1")
	}
	if l.UnitPrice.IsNegative() {
		return shared.NewValidationFailure(l.ProductID, "sale item unit price cannot be negative")
	}
	return nil
}

// Line returns the item's request form
func (i SaleItem) Line() SaleLine {
	return SaleLine{ProductID: i.ProductID, Quantity: i.Quantity, UnitPrice: i.UnitPrice}
}

// Amount returns quantity × unit price
func (i SaleItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale is the aggregate root for customer orders
type Sale struct {
	shared.BaseAggregateRoot
	CustomerID       uuid.UUID
	PaymentMethodID  uuid.UUID
	DeliveryMediumID uuid.UUID
	Payment          Payment
	Status           SaleStatus
	Notes            string
	Items            []SaleItem
}

// NewSale creates a sale shell without items. CANCELLED is rejected and the
// payment invariant is checked before anything else happens.
func NewSale(
	customerID, paymentMethodID, deliveryMediumID uuid.UUID,
	payment Payment,
	status SaleStatus,
	notes string,
	by shared.Principal,
) (*Sale, error) {
	if status == SaleStatusCancelled {
		return nil, shared.NewValidationFailure(uuid.Nil, "cancelled sales cannot be added")
	}
	if !status.IsValid() {
		return nil, shared.NewValidationFailure(uuid.Nil, "invalid sale status %q", status)
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationFailure(uuid.Nil, "customer is required")
	}
	if err := payment.Validate(uuid.Nil); err != nil {
		return nil, err
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		PaymentMethodID:   paymentMethodID,
		DeliveryMediumID:  deliveryMediumID,
		Payment:           payment,
		Status:            status,
		Notes:             notes,
		Items:             make([]SaleItem, 0),
	}
	sale.StampAdded(by)
	return sale, nil
}

// AddItem stages a line on the sale. Stock is the caller's concern.
func (s *Sale) AddItem(line SaleLine) (SaleItem, error) {
	if err := line.Validate(); err != nil {
		return SaleItem{}, err
	}
	item := SaleItem{
		ID:        uuid.New(),
		SaleID:    s.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		CreatedAt: time.Now(),
	}
	s.Items = append(s.Items, item)
	return item, nil
}

// ClearItems detaches every item and returns them so their stock can be
// restored
func (s *Sale) ClearItems() []SaleItem {
	removed := s.Items
	s.Items = make([]SaleItem, 0)
	return removed
}

// SameLines reports whether lines describe the stored item set, ignoring order
func (s *Sale) SameLines(lines []SaleLine) bool {
	if len(lines) != len(s.Items) {
		return false
	}
	stored := make([]SaleLine, len(s.Items))
	for i, item := range s.Items {
		stored[i] = item.Line()
	}
	incoming := append([]SaleLine(nil), lines...)
	sortLines(stored)
	sortLines(incoming)
	for i := range stored {
		if stored[i].ProductID != incoming[i].ProductID ||
			stored[i].Quantity != incoming[i].Quantity ||
			!stored[i].UnitPrice.Equal(incoming[i].UnitPrice) {
			return false
		}
	}
	return true
}

func sortLines(lines []SaleLine) {
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.ProductID != b.ProductID {
			return a.ProductID.String() < b.ProductID.String()
		}
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		return a.UnitPrice.LessThan(b.UnitPrice)
	})
}

// SaleChanges carries a partial update; nil fields keep the stored value
type SaleChanges struct {
	CustomerID       *uuid.UUID
	PaymentMethodID  *uuid.UUID
	DeliveryMediumID *uuid.UUID
	PaymentStatus    *PaymentStatus
	TotalPayable     *decimal.Decimal
	TotalDue         *decimal.Decimal
	Status           *SaleStatus
	Notes            *string
}

// Apply merges scalar changes into a PENDING or CONFIRMED sale. Moving to
// CANCELLED is allowed here; item restoration belongs to the caller.
func (s *Sale) Apply(changes SaleChanges, by shared.Principal) error {
	if !s.Status.IsMutable() {
		return shared.NewStateViolation(s.ID, "cancelled sales cannot be updated")
	}

	payment := s.Payment
	if changes.PaymentStatus != nil {
		payment.Status = *changes.PaymentStatus
	}
	if changes.TotalPayable != nil {
		payment.TotalPayable = *changes.TotalPayable
	}
	if changes.TotalDue != nil {
		payment.TotalDue = *changes.TotalDue
	}
	if err := payment.Validate(s.ID); err != nil {
		return err
	}

	status := s.Status
	if changes.Status != nil {
		if !changes.Status.IsValid() {
			return shared.NewValidationFailure(s.ID, "invalid sale status %q", *changes.Status)
		}
		status = *changes.Status
	}

	if changes.CustomerID != nil && *changes.CustomerID != uuid.Nil {
		s.CustomerID = *changes.CustomerID
	}
	if changes.PaymentMethodID != nil && *changes.PaymentMethodID != uuid.Nil {
		s.PaymentMethodID = *changes.PaymentMethodID
	}
	if changes.DeliveryMediumID != nil && *changes.DeliveryMediumID != uuid.Nil {
		s.DeliveryMediumID = *changes.DeliveryMediumID
	}
	if changes.Notes != nil {
		s.Notes = *changes.Notes
	}
	s.Payment = payment
	s.Status = status
	s.StampUpdated(by)

	if status == SaleStatusCancelled {
		s.AddDomainEvent(NewSaleCancelledEvent(s, by))
	} else {
		s.AddDomainEvent(NewSaleUpdatedEvent(s, by))
	}
	return nil
}

// MarkCreated records the creation event once all items are staged
func (s *Sale) MarkCreated(by shared.Principal) {
	s.AddDomainEvent(NewSaleCreatedEvent(s, by))
}

// TotalQuantity returns the number of units across all items
func (s *Sale) TotalQuantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// Period returns the accounting period of the sale's creation
func (s *Sale) Period() shared.Period {
	return shared.PeriodOf(s.CreatedAt)
}

// IsCancelled returns true if the sale was cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}
