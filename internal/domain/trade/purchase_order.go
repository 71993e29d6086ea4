package trade

import (
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusInStock   PurchaseOrderStatus = "IN_STOCK"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusInStock, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no transition can leave this status
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusInStock || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status.
// Only PENDING has outgoing edges; staying PENDING is an edit, not a transition.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if s != PurchaseOrderStatusPending {
		return false
	}
	return target.IsValid()
}

// PurchaseOrderType distinguishes orders that introduce a product from
// orders that top up an existing one
type PurchaseOrderType string

const (
	PurchaseOrderTypeNewProduct PurchaseOrderType = "NEW_PRODUCT"
	PurchaseOrderTypeRestock    PurchaseOrderType = "RESTOCK"
)

// IsValid checks if the type is a valid PurchaseOrderType
func (t PurchaseOrderType) IsValid() bool {
	return t == PurchaseOrderTypeNewProduct || t == PurchaseOrderTypeRestock
}

// CostBreakdown is what acquiring the goods costs
type CostBreakdown struct {
	PurchasePrice decimal.Decimal
	Shipping      decimal.Decimal
	Other         decimal.Decimal
}

// Total returns purchase price + shipping + other costs
func (c CostBreakdown) Total() decimal.Decimal {
	return c.PurchasePrice.Add(c.Shipping).Add(c.Other)
}

// Validate requires every component to be non-negative and the total positive
func (c CostBreakdown) Validate(orderID uuid.UUID) error {
	if c.PurchasePrice.IsNegative() {
		return shared.NewValidationFailure(orderID, "purchase price cannot be negative")
	}
	if c.Shipping.IsNegative() {
		return shared.NewValidationFailure(orderID, "shipping cost cannot be negative")
	}
	if c.Other.IsNegative() {
		return shared.NewValidationFailure(orderID, "other costs cannot be negative")
	}
	if !c.Total().IsPositive() {
		return shared.NewValidationFailure(orderID, "total purchase cost must be positive")
	}
	return nil
}

// PurchaseOrder is the aggregate root for acquiring inventory. Its type is
// fixed at creation and its status leaves PENDING at most once.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	Product      catalog.Descriptor
	CategoryID   uuid.UUID
	Quantity     int
	Cost         CostBreakdown
	SellingPrice decimal.Decimal
	SupplierID   uuid.UUID
	Status       PurchaseOrderStatus
	Type         PurchaseOrderType
	// ProductID is the restocked product; uuid.Nil for NEW_PRODUCT orders
	ProductID uuid.UUID
}

// NewPurchaseOrder creates a NEW_PRODUCT order. The initial status must be
// PENDING or IN_STOCK.
func NewPurchaseOrder(
	desc catalog.Descriptor,
	categoryID uuid.UUID,
	quantity int,
	cost CostBreakdown,
	sellingPrice decimal.Decimal,
	supplierID uuid.UUID,
	status PurchaseOrderStatus,
	by shared.Principal,
) (*PurchaseOrder, error) {
	desc = desc.Normalize()
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return newPurchaseOrder(desc, categoryID, quantity, cost, sellingPrice, supplierID, status, PurchaseOrderTypeNewProduct, uuid.Nil, by)
}

// NewRestockOrder creates a RESTOCK order for an existing product. Name,
// category and specifications are inherited from the product.
func NewRestockOrder(
	product *catalog.Product,
	quantity int,
	cost CostBreakdown,
	sellingPrice decimal.Decimal,
	supplierID uuid.UUID,
	status PurchaseOrderStatus,
	by shared.Principal,
) (*PurchaseOrder, error) {
	if product == nil {
		return nil, shared.NewValidationFailure(uuid.Nil, "restock requires an existing product")
	}
	return newPurchaseOrder(product.Descriptor(), product.CategoryID, quantity, cost, sellingPrice, supplierID, status, PurchaseOrderTypeRestock, product.ID, by)
}

func newPurchaseOrder(
	desc catalog.Descriptor,
	categoryID uuid.UUID,
	quantity int,
	cost CostBreakdown,
	sellingPrice decimal.Decimal,
	supplierID uuid.UUID,
	status PurchaseOrderStatus,
	orderType PurchaseOrderType,
	productID uuid.UUID,
	by shared.Principal,
) (*PurchaseOrder, error) {
	if err := validateStatusAtCreation(status); err != nil {
		return nil, err
	}
	if err := validateOrderFields(uuid.Nil, quantity, cost, sellingPrice); err != nil {
		return nil, err
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationFailure(uuid.Nil, "supplier is required")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Product:           desc,
		CategoryID:        categoryID,
		Quantity:          quantity,
		Cost:              cost,
		SellingPrice:      sellingPrice,
		SupplierID:        supplierID,
		Status:            status,
		Type:              orderType,
		ProductID:         productID,
	}
	order.StampAdded(by)
	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order, by))

	return order, nil
}

// PurchaseOrderChanges carries a partial update; nil fields keep the stored value
type PurchaseOrderChanges struct {
	Product       *catalog.Descriptor
	CategoryID    *uuid.UUID
	Quantity      *int
	PurchasePrice *decimal.Decimal
	Shipping      *decimal.Decimal
	Other         *decimal.Decimal
	SellingPrice  *decimal.Decimal
	SupplierID    *uuid.UUID
	Status        *PurchaseOrderStatus
}

// Apply merges changes into a PENDING order and performs the status
// transition they request. Non-PENDING orders are rejected.
func (o *PurchaseOrder) Apply(changes PurchaseOrderChanges, by shared.Principal) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewStateViolation(o.ID, "only pending orders can be updated, order is %s", o.Status)
	}

	desc := o.Product
	if changes.Product != nil {
		next := changes.Product.Normalize()
		if o.Type == PurchaseOrderTypeRestock && next != o.Product {
			return shared.NewValidationFailure(o.ID, "restock orders inherit product details and cannot change them")
		}
		if err := next.Validate(); err != nil {
			return err
		}
		desc = next
	}

	categoryID := o.CategoryID
	if changes.CategoryID != nil && *changes.CategoryID != uuid.Nil && o.Type == PurchaseOrderTypeNewProduct {
		categoryID = *changes.CategoryID
	}

	quantity := o.Quantity
	if changes.Quantity != nil {
		quantity = *changes.Quantity
	}
	cost := o.Cost
	if changes.PurchasePrice != nil {
		cost.PurchasePrice = *changes.PurchasePrice
	}
	if changes.Shipping != nil {
		cost.Shipping = *changes.Shipping
	}
	if changes.Other != nil {
		cost.Other = *changes.Other
	}
	sellingPrice := o.SellingPrice
	if changes.SellingPrice != nil {
		sellingPrice = *changes.SellingPrice
	}
	supplierID := o.SupplierID
	if changes.SupplierID != nil && *changes.SupplierID != uuid.Nil {
		supplierID = *changes.SupplierID
	}
	status := o.Status
	if changes.Status != nil {
		status = *changes.Status
		if !o.Status.CanTransitionTo(status) {
			return shared.NewValidationFailure(o.ID, "invalid purchase order status %q", status)
		}
	}

	if err := validateOrderFields(o.ID, quantity, cost, sellingPrice); err != nil {
		return err
	}

	o.Product = desc
	o.CategoryID = categoryID
	o.Quantity = quantity
	o.Cost = cost
	o.SellingPrice = sellingPrice
	o.SupplierID = supplierID
	o.Status = status
	o.StampUpdated(by)

	switch status {
	case PurchaseOrderStatusInStock:
		o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, by))
	case PurchaseOrderStatusCancelled:
		o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, by))
	default:
		o.AddDomainEvent(NewPurchaseOrderUpdatedEvent(o, by))
	}

	return nil
}

// VerifyRestockTarget checks a caller-supplied product id against the one
// locked into a RESTOCK order. uuid.Nil means "use the locked product".
func (o *PurchaseOrder) VerifyRestockTarget(productID uuid.UUID) error {
	if o.Type != PurchaseOrderTypeRestock {
		return nil
	}
	if productID != uuid.Nil && productID != o.ProductID {
		return shared.NewValidationFailure(o.ID, "product %s does not match the restocked product %s", productID, o.ProductID)
	}
	return nil
}

// TotalCost returns the expense this order contributes to its period
func (o *PurchaseOrder) TotalCost() decimal.Decimal {
	return o.Cost.Total()
}

// Period returns the accounting period of the order's creation
func (o *PurchaseOrder) Period() shared.Period {
	return shared.PeriodOf(o.CreatedAt)
}

// IsPending returns true if the order can still be edited
func (o *PurchaseOrder) IsPending() bool {
	return o.Status == PurchaseOrderStatusPending
}

// IsInStock returns true if the goods were received
func (o *PurchaseOrder) IsInStock() bool {
	return o.Status == PurchaseOrderStatusInStock
}

// IsCancelled returns true if the order was cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// IsRestock returns true for RESTOCK orders
func (o *PurchaseOrder) IsRestock() bool {
	return o.Type == PurchaseOrderTypeRestock
}

func validateStatusAtCreation(status PurchaseOrderStatus) error {
	switch status {
	case PurchaseOrderStatusPending, PurchaseOrderStatusInStock:
		return nil
	case PurchaseOrderStatusCancelled:
		return shared.NewValidationFailure(uuid.Nil, "cancelled orders cannot be added")
	}
	return shared.NewValidationFailure(uuid.Nil, "invalid purchase order status %q", status)
}

func validateOrderFields(orderID uuid.UUID, quantity int, cost CostBreakdown, sellingPrice decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewValidationFailure(orderID, "quantity must be positive")
	}
	if err := cost.Validate(orderID); err != nil {
		return err
	}
	if !sellingPrice.IsPositive() {
		return shared.NewValidationFailure(orderID, "selling price must be positive")
	}
	return nil
}
