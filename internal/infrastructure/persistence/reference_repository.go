package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Reference data is keyed by a natural key (a phone number or a name) and is
// never updated once stored: the first writer's details win.

// GormCategoryRepository resolves product categories by name
type GormCategoryRepository struct{ db *gorm.DB }

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindOrCreate(ctx context.Context, c *catalog.ProductCategory) (*catalog.ProductCategory, error) {
	stored, err := findOrCreate(ctx, r.db, models.CategoryModelFromDomain(c), "name", c.Name)
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// GormSupplierRepository resolves suppliers by phone
type GormSupplierRepository struct{ db *gorm.DB }

func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) FindOrCreate(ctx context.Context, s *partner.Supplier) (*partner.Supplier, error) {
	stored, err := findOrCreate(ctx, r.db, models.SupplierModelFromDomain(s), "phone", s.Phone)
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// GormCustomerRepository resolves customers by phone
type GormCustomerRepository struct{ db *gorm.DB }

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindOrCreate(ctx context.Context, c *partner.Customer) (*partner.Customer, error) {
	stored, err := findOrCreate(ctx, r.db, models.CustomerModelFromDomain(c), "phone", c.Phone)
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// GormPaymentMethodRepository resolves payment methods by name
type GormPaymentMethodRepository struct{ db *gorm.DB }

func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

func (r *GormPaymentMethodRepository) FindOrCreate(ctx context.Context, m *trade.PaymentMethod) (*trade.PaymentMethod, error) {
	stored, err := findOrCreate(ctx, r.db, models.PaymentMethodModelFromDomain(m), "name", m.Name)
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// GormDeliveryMediumRepository resolves delivery media by name
type GormDeliveryMediumRepository struct{ db *gorm.DB }

func NewGormDeliveryMediumRepository(db *gorm.DB) *GormDeliveryMediumRepository {
	return &GormDeliveryMediumRepository{db: db}
}

func (r *GormDeliveryMediumRepository) FindOrCreate(ctx context.Context, m *trade.DeliveryMedium) (*trade.DeliveryMedium, error) {
	stored, err := findOrCreate(ctx, r.db, models.DeliveryMediumModelFromDomain(m), "name", m.Name)
	if err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

var (
	_ catalog.CategoryRepository     = (*GormCategoryRepository)(nil)
	_ partner.SupplierRepository     = (*GormSupplierRepository)(nil)
	_ partner.CustomerRepository     = (*GormCustomerRepository)(nil)
	_ trade.PaymentMethodRepository  = (*GormPaymentMethodRepository)(nil)
	_ trade.DeliveryMediumRepository = (*GormDeliveryMediumRepository)(nil)
)
