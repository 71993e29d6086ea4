package finance

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordType distinguishes money out from money in
type RecordType string

const (
	RecordTypeExpense RecordType = "EXPENSE"
	RecordTypeSale    RecordType = "SALE"
)

// IsValid checks if the type is a valid RecordType
func (t RecordType) IsValid() bool {
	return t == RecordTypeExpense || t == RecordTypeSale
}

// String returns the string representation of RecordType
func (t RecordType) String() string {
	return string(t)
}

// FinanceRecord is the single mutable ledger row an order contributes to its
// accounting period. Every non-cancelled order has exactly one; cancelling the
// order deletes it and edits revalue it in place.
type FinanceRecord struct {
	shared.BaseEntity
	Period          shared.Period
	Value           decimal.Decimal
	Type            RecordType
	PurchaseOrderID uuid.UUID
	SaleID          uuid.UUID
}

// NewExpenseRecord creates the EXPENSE record of a purchase order
func NewExpenseRecord(purchaseOrderID uuid.UUID, period shared.Period, value decimal.Decimal) (*FinanceRecord, error) {
	if purchaseOrderID == uuid.Nil {
		return nil, shared.NewValidationFailure(uuid.Nil, "expense record requires a purchase order")
	}
	r := &FinanceRecord{
		BaseEntity:      shared.NewBaseEntity(),
		Period:          period,
		Type:            RecordTypeExpense,
		PurchaseOrderID: purchaseOrderID,
	}
	if err := r.Revalue(value); err != nil {
		return nil, err
	}
	return r, nil
}

// NewSaleRecord creates the SALE record of a sale
func NewSaleRecord(saleID uuid.UUID, period shared.Period, value decimal.Decimal) (*FinanceRecord, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewValidationFailure(uuid.Nil, "sale record requires a sale")
	}
	r := &FinanceRecord{
		BaseEntity: shared.NewBaseEntity(),
		Period:     period,
		Type:       RecordTypeSale,
		SaleID:     saleID,
	}
	if err := r.Revalue(value); err != nil {
		return nil, err
	}
	return r, nil
}

// Revalue overwrites the record's value
func (r *FinanceRecord) Revalue(value decimal.Decimal) error {
	if value.IsNegative() {
		return shared.NewValidationFailure(r.OrderID(), "finance record value cannot be negative")
	}
	r.Value = value
	r.Touch()
	return nil
}

// OrderID returns the back-referenced purchase order or sale
func (r *FinanceRecord) OrderID() uuid.UUID {
	if r.Type == RecordTypeExpense {
		return r.PurchaseOrderID
	}
	return r.SaleID
}
