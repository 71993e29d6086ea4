package models

import (
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceRecordModel is the persistence model for FinanceRecord. Each order
// owns at most one row, enforced by the unique back-reference indexes.
type FinanceRecordModel struct {
	BaseModel
	Year            int                `gorm:"not null;index:idx_finance_records_type_period,priority:2"`
	Month           int                `gorm:"not null;index:idx_finance_records_type_period,priority:3"`
	Value           decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Type            finance.RecordType `gorm:"type:varchar(20);not null;index:idx_finance_records_type_period,priority:1"`
	PurchaseOrderID *uuid.UUID         `gorm:"type:uuid;uniqueIndex:idx_finance_records_purchase_order"`
	SaleID          *uuid.UUID         `gorm:"type:uuid;uniqueIndex:idx_finance_records_sale"`
}

// TableName returns the table name for GORM
func (FinanceRecordModel) TableName() string {
	return "finance_records"
}

// ToDomain converts the persistence model to a domain FinanceRecord.
func (m *FinanceRecordModel) ToDomain() *finance.FinanceRecord {
	return &finance.FinanceRecord{
		BaseEntity:      m.BaseModel.ToDomain(),
		Period:          shared.Period{Year: m.Year, Month: m.Month},
		Value:           m.Value,
		Type:            m.Type,
		PurchaseOrderID: IDOrNil(m.PurchaseOrderID),
		SaleID:          IDOrNil(m.SaleID),
	}
}

// FromDomain populates the persistence model from a domain FinanceRecord.
func (m *FinanceRecordModel) FromDomain(r *finance.FinanceRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Year = r.Period.Year
	m.Month = r.Period.Month
	m.Value = r.Value
	m.Type = r.Type
	m.PurchaseOrderID = NullableID(r.PurchaseOrderID)
	m.SaleID = NullableID(r.SaleID)
}

// FinanceRecordModelFromDomain creates a new persistence model from a domain FinanceRecord.
func FinanceRecordModelFromDomain(r *finance.FinanceRecord) *FinanceRecordModel {
	m := &FinanceRecordModel{}
	m.FromDomain(r)
	return m
}
