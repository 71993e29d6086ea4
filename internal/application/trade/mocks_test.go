package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindOrCreate(ctx context.Context, category *catalog.ProductCategory) (*catalog.ProductCategory, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductCategory), args.Error(1)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindOrCreate(ctx context.Context, supplier *partner.Supplier) (*partner.Supplier, error) {
	args := m.Called(ctx, supplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindOrCreate(ctx context.Context, customer *partner.Customer) (*partner.Customer, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of trade.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) ExistsActiveRestock(ctx context.Context, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockSaleRepository is a mock implementation of trade.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Sale), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockPaymentMethodRepository is a mock implementation of trade.PaymentMethodRepository
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) FindOrCreate(ctx context.Context, method *trade.PaymentMethod) (*trade.PaymentMethod, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PaymentMethod), args.Error(1)
}

// MockDeliveryMediumRepository is a mock implementation of trade.DeliveryMediumRepository
type MockDeliveryMediumRepository struct {
	mock.Mock
}

func (m *MockDeliveryMediumRepository) FindOrCreate(ctx context.Context, medium *trade.DeliveryMedium) (*trade.DeliveryMedium, error) {
	args := m.Called(ctx, medium)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.DeliveryMedium), args.Error(1)
}

// MockFinanceRecordRepository is a mock implementation of finance.FinanceRecordRepository
type MockFinanceRecordRepository struct {
	mock.Mock
}

func (m *MockFinanceRecordRepository) FindByPurchaseOrder(ctx context.Context, id uuid.UUID) (*finance.FinanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinanceRecord), args.Error(1)
}

func (m *MockFinanceRecordRepository) FindBySale(ctx context.Context, id uuid.UUID) (*finance.FinanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinanceRecord), args.Error(1)
}

func (m *MockFinanceRecordRepository) FindByPeriod(ctx context.Context, recordType finance.RecordType, year, month int) ([]finance.FinanceRecord, error) {
	args := m.Called(ctx, recordType, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinanceRecord), args.Error(1)
}

func (m *MockFinanceRecordRepository) Create(ctx context.Context, record *finance.FinanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFinanceRecordRepository) Save(ctx context.Context, record *finance.FinanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFinanceRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// testRepos bundles one mock per repository
type testRepos struct {
	products       *MockProductRepository
	categories     *MockCategoryRepository
	suppliers      *MockSupplierRepository
	customers      *MockCustomerRepository
	purchaseOrders *MockPurchaseOrderRepository
	sales          *MockSaleRepository
	paymentMethods *MockPaymentMethodRepository
	deliveryMedia  *MockDeliveryMediumRepository
	financeRecords *MockFinanceRecordRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		products:       new(MockProductRepository),
		categories:     new(MockCategoryRepository),
		suppliers:      new(MockSupplierRepository),
		customers:      new(MockCustomerRepository),
		purchaseOrders: new(MockPurchaseOrderRepository),
		sales:          new(MockSaleRepository),
		paymentMethods: new(MockPaymentMethodRepository),
		deliveryMedia:  new(MockDeliveryMediumRepository),
		financeRecords: new(MockFinanceRecordRepository),
	}
}

func (r *testRepos) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(RepositorySet{
		Products:       r.products,
		Categories:     r.categories,
		Suppliers:      r.suppliers,
		Customers:      r.customers,
		PurchaseOrders: r.purchaseOrders,
		Sales:          r.sales,
		PaymentMethods: r.paymentMethods,
		DeliveryMedia:  r.deliveryMedia,
		FinanceRecords: r.financeRecords,
	})
}

// expectReferenceData stubs every natural-key upsert with a fixed row
func (r *testRepos) expectReferenceData() {
	r.categories.On("FindOrCreate", mock.Anything, mock.Anything).
		Return(&catalog.ProductCategory{BaseEntity: shared.BaseEntity{ID: testCategoryID}, Name: "Phones"}, nil).Maybe()
	r.suppliers.On("FindOrCreate", mock.Anything, mock.Anything).
		Return(&partner.Supplier{BaseEntity: shared.BaseEntity{ID: testSupplierID}, Name: "Acme", Phone: "5550100"}, nil).Maybe()
	r.customers.On("FindOrCreate", mock.Anything, mock.Anything).
		Return(&partner.Customer{BaseEntity: shared.BaseEntity{ID: testCustomerID}, Name: "Jane", Phone: "5550199"}, nil).Maybe()
	r.paymentMethods.On("FindOrCreate", mock.Anything, mock.Anything).
		Return(&trade.PaymentMethod{BaseEntity: shared.BaseEntity{ID: testPaymentMethodID}, Name: "Cash"}, nil).Maybe()
	r.deliveryMedia.On("FindOrCreate", mock.Anything, mock.Anything).
		Return(&trade.DeliveryMedium{BaseEntity: shared.BaseEntity{ID: testDeliveryMediumID}, Name: "Courier"}, nil).Maybe()
}

func (r *testRepos) assertExpectations(t mock.TestingT) {
	r.products.AssertExpectations(t)
	r.purchaseOrders.AssertExpectations(t)
	r.sales.AssertExpectations(t)
	r.financeRecords.AssertExpectations(t)
}

var (
	testCategoryID       = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	testSupplierID       = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	testCustomerID       = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	testPaymentMethodID  = uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
	testDeliveryMediumID = uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
	testPrincipal        = shared.NewPrincipal(uuid.MustParse("00000000-0000-0000-0000-0000000000f1"), "alice")
)
