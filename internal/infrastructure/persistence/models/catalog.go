package models

import (
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Name            string          `gorm:"type:varchar(200);not null"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	Category        string          `gorm:"type:varchar(100);not null"`
	Specifications  string          `gorm:"type:text"`
	Stock           int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		CategoryID:        IDOrNil(m.CategoryID),
		Category:          m.Category,
		Specifications:    m.Specifications,
		Stock:             m.Stock,
		UnitPrice:         m.UnitPrice,
		PurchaseOrderID:   IDOrNil(m.PurchaseOrderID),
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.CategoryID = NullableID(p.CategoryID)
	m.Category = p.Category
	m.Specifications = p.Specifications
	m.Stock = p.Stock
	m.UnitPrice = p.UnitPrice
	m.PurchaseOrderID = NullableID(p.PurchaseOrderID)
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for ProductCategory. The name is unique.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain ProductCategory.
func (m *CategoryModel) ToDomain() *catalog.ProductCategory {
	return &catalog.ProductCategory{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain ProductCategory.
func CategoryModelFromDomain(c *catalog.ProductCategory) *CategoryModel {
	m := &CategoryModel{Name: c.Name}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
