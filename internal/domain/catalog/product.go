package catalog

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked item. Its Stock field is the stock ledger: the
// authoritative quantity on hand, changed only by purchase and sale
// transitions and never allowed below zero.
type Product struct {
	shared.BaseAggregateRoot
	Name            string
	CategoryID      uuid.UUID
	Category        string
	Specifications  string
	Stock           int
	UnitPrice       decimal.Decimal
	PurchaseOrderID uuid.UUID
}

// NewProductFromPurchase materializes a product from a completed purchase
// order: stock starts at the ordered quantity and the price at the order's
// selling price.
func NewProductFromPurchase(
	purchaseOrderID uuid.UUID,
	desc Descriptor,
	categoryID uuid.UUID,
	quantity int,
	unitPrice decimal.Decimal,
	by shared.Principal,
) (*Product, error) {
	desc = desc.Normalize()
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, shared.NewValidationFailure(purchaseOrderID, "initial stock must be positive")
	}
	if !unitPrice.IsPositive() {
		return nil, shared.NewValidationFailure(purchaseOrderID, "unit price must be positive")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              desc.Name,
		CategoryID:        categoryID,
		Category:          desc.Category,
		Specifications:    desc.Specifications,
		Stock:             quantity,
		UnitPrice:         unitPrice,
		PurchaseOrderID:   purchaseOrderID,
	}
	p.StampAdded(by)
	p.AddDomainEvent(NewProductCreatedEvent(p, by))

	return p, nil
}

// Descriptor returns the product's identifying attributes
func (p *Product) Descriptor() Descriptor {
	return Descriptor{
		Name:           p.Name,
		Category:       p.Category,
		Specifications: p.Specifications,
	}
}

// IncreaseStock adds received or returned units to the ledger
func (p *Product) IncreaseStock(quantity int, by shared.Principal) error {
	if quantity <= 0 {
		return shared.NewValidationFailure(p.ID, "stock increase must be positive, got %d", quantity)
	}
	p.Stock += quantity
	p.StampUpdated(by)
	return nil
}

// DecreaseStock removes sold units. The sufficiency check and the decrement
// happen together; a shortfall leaves the product untouched.
func (p *Product) DecreaseStock(quantity int, by shared.Principal) error {
	if quantity <= 0 {
		return shared.NewValidationFailure(p.ID, "stock decrease must be positive, got %d", quantity)
	}
	if p.Stock < quantity {
		return shared.NewStockInsufficient(p.ID, quantity, p.Stock)
	}
	p.Stock -= quantity
	p.StampUpdated(by)
	return nil
}

// HasStock reports whether quantity units are available
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// FlagLowStock records a low-stock event when stock has dropped to threshold
// or below. A non-positive threshold disables the check.
func (p *Product) FlagLowStock(threshold int, by shared.Principal) bool {
	if threshold <= 0 || p.Stock > threshold {
		return false
	}
	p.AddDomainEvent(NewProductLowStockEvent(p, threshold, by))
	return true
}
