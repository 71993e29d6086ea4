package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate.
// PeriodYear and PeriodMonth copy the creation month so reports can group
// without dialect-specific date functions.
type PurchaseOrderModel struct {
	AggregateModel
	ProductName    string                    `gorm:"type:varchar(200);not null"`
	Category       string                    `gorm:"type:varchar(100);not null"`
	Specifications string                    `gorm:"type:text"`
	CategoryID     *uuid.UUID                `gorm:"type:uuid"`
	Quantity       int                       `gorm:"not null"`
	PurchasePrice  decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost   decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	OtherCost      decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice   decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	SupplierID     uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Status         trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;index"`
	Type           trade.PurchaseOrderType   `gorm:"type:varchar(20);not null"`
	ProductID      *uuid.UUID                `gorm:"type:uuid;index"`
	PeriodYear     int                       `gorm:"not null;index:idx_purchase_orders_period,priority:1"`
	PeriodMonth    int                       `gorm:"not null;index:idx_purchase_orders_period,priority:2"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	return &trade.PurchaseOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Product: catalog.Descriptor{
			Name:           m.ProductName,
			Category:       m.Category,
			Specifications: m.Specifications,
		},
		CategoryID: IDOrNil(m.CategoryID),
		Quantity:   m.Quantity,
		Cost: trade.CostBreakdown{
			PurchasePrice: m.PurchasePrice,
			Shipping:      m.ShippingCost,
			Other:         m.OtherCost,
		},
		SellingPrice: m.SellingPrice,
		SupplierID:   m.SupplierID,
		Status:       m.Status,
		Type:         m.Type,
		ProductID:    IDOrNil(m.ProductID),
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrder.
func (m *PurchaseOrderModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.ProductName = o.Product.Name
	m.Category = o.Product.Category
	m.Specifications = o.Product.Specifications
	m.CategoryID = NullableID(o.CategoryID)
	m.Quantity = o.Quantity
	m.PurchasePrice = o.Cost.PurchasePrice
	m.ShippingCost = o.Cost.Shipping
	m.OtherCost = o.Cost.Other
	m.SellingPrice = o.SellingPrice
	m.SupplierID = o.SupplierID
	m.Status = o.Status
	m.Type = o.Type
	m.ProductID = NullableID(o.ProductID)
	period := o.Period()
	m.PeriodYear = period.Year
	m.PeriodMonth = period.Month
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// SaleModel is the persistence model for the Sale aggregate. Items live in
// sale_items and are loaded separately.
type SaleModel struct {
	AggregateModel
	CustomerID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	PaymentMethodID  *uuid.UUID          `gorm:"type:uuid"`
	DeliveryMediumID *uuid.UUID          `gorm:"type:uuid"`
	PaymentStatus    trade.PaymentStatus `gorm:"type:varchar(20);not null"`
	TotalPayable     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDue         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status           trade.SaleStatus    `gorm:"type:varchar(20);not null;index"`
	Notes            string              `gorm:"type:text"`
	PeriodYear       int                 `gorm:"not null;index:idx_sales_period,priority:1"`
	PeriodMonth      int                 `gorm:"not null;index:idx_sales_period,priority:2"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale with the given items.
func (m *SaleModel) ToDomain(items []SaleItemModel) *trade.Sale {
	sale := &trade.Sale{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		PaymentMethodID:   IDOrNil(m.PaymentMethodID),
		DeliveryMediumID:  IDOrNil(m.DeliveryMediumID),
		Payment: trade.Payment{
			Status:       m.PaymentStatus,
			TotalPayable: m.TotalPayable,
			TotalDue:     m.TotalDue,
		},
		Status: m.Status,
		Notes:  m.Notes,
		Items:  make([]trade.SaleItem, 0, len(items)),
	}
	for i := range items {
		sale.Items = append(sale.Items, items[i].ToDomain())
	}
	return sale
}

// FromDomain populates the persistence model from a domain Sale. Items are
// not copied; see SaleItemModelsFromDomain.
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.CustomerID = s.CustomerID
	m.PaymentMethodID = NullableID(s.PaymentMethodID)
	m.DeliveryMediumID = NullableID(s.DeliveryMediumID)
	m.PaymentStatus = s.Payment.Status
	m.TotalPayable = s.Payment.TotalPayable
	m.TotalDue = s.Payment.TotalDue
	m.Status = s.Status
	m.Notes = s.Notes
	period := s.Period()
	m.PeriodYear = period.Year
	m.PeriodMonth = period.Month
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is one line of a sale.
type SaleItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() trade.SaleItem {
	return trade.SaleItem{
		ID:        m.ID,
		SaleID:    m.SaleID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		CreatedAt: m.CreatedAt,
	}
}

// SaleItemModelsFromDomain maps a sale's items, binding each one to the sale.
func SaleItemModelsFromDomain(s *trade.Sale) []SaleItemModel {
	items := make([]SaleItemModel, 0, len(s.Items))
	for _, item := range s.Items {
		created := item.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		items = append(items, SaleItemModel{
			ID:        item.ID,
			SaleID:    s.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			CreatedAt: created,
		})
	}
	return items
}

// PaymentMethodModel is the persistence model for PaymentMethod.
type PaymentMethodModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:idx_payment_methods_name"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod.
func (m *PaymentMethodModel) ToDomain() *trade.PaymentMethod {
	return &trade.PaymentMethod{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// PaymentMethodModelFromDomain creates a new persistence model from a domain PaymentMethod.
func PaymentMethodModelFromDomain(p *trade.PaymentMethod) *PaymentMethodModel {
	m := &PaymentMethodModel{Name: p.Name}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// DeliveryMediumModel is the persistence model for DeliveryMedium.
type DeliveryMediumModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:idx_delivery_media_name"`
}

// TableName returns the table name for GORM
func (DeliveryMediumModel) TableName() string {
	return "delivery_media"
}

// ToDomain converts the persistence model to a domain DeliveryMedium.
func (m *DeliveryMediumModel) ToDomain() *trade.DeliveryMedium {
	return &trade.DeliveryMedium{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// DeliveryMediumModelFromDomain creates a new persistence model from a domain DeliveryMedium.
func DeliveryMediumModelFromDomain(d *trade.DeliveryMedium) *DeliveryMediumModel {
	m := &DeliveryMediumModel{Name: d.Name}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}
