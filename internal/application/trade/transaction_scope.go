package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/trade"
)

// TransactionScope runs an order mutation inside one database transaction.
// The order row, every affected product row and the order's finance record
// are read and written through the repositories handed to fn; returning an
// error rolls all of it back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to every repository an order
// mutation touches. All of them share the same underlying transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product (stock ledger) repository
	ProductRepo() catalog.ProductRepository
	// CategoryRepo returns the product category repository
	CategoryRepo() catalog.CategoryRepository
	// SupplierRepo returns the supplier repository
	SupplierRepo() partner.SupplierRepository
	// CustomerRepo returns the customer repository
	CustomerRepo() partner.CustomerRepository
	// PurchaseOrderRepo returns the purchase order repository
	PurchaseOrderRepo() trade.PurchaseOrderRepository
	// SaleRepo returns the sale repository
	SaleRepo() trade.SaleRepository
	// PaymentMethodRepo returns the payment method repository
	PaymentMethodRepo() trade.PaymentMethodRepository
	// DeliveryMediumRepo returns the delivery medium repository
	DeliveryMediumRepo() trade.DeliveryMediumRepository
	// FinanceRecordRepo returns the finance record repository
	FinanceRecordRepo() finance.FinanceRecordRepository
}

// RepositorySet is a plain bundle of repositories
type RepositorySet struct {
	Products       catalog.ProductRepository
	Categories     catalog.CategoryRepository
	Suppliers      partner.SupplierRepository
	Customers      partner.CustomerRepository
	PurchaseOrders trade.PurchaseOrderRepository
	Sales          trade.SaleRepository
	PaymentMethods trade.PaymentMethodRepository
	DeliveryMedia  trade.DeliveryMediumRepository
	FinanceRecords finance.FinanceRecordRepository
}

// NoOpTransactionScope hands fixed repositories to fn without opening a
// transaction. Used by unit tests.
type NoOpTransactionScope struct {
	repos RepositorySet
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(repos RepositorySet) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository     { return s.repos.Products }
func (s *NoOpTransactionScope) CategoryRepo() catalog.CategoryRepository   { return s.repos.Categories }
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository   { return s.repos.Suppliers }
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository   { return s.repos.Customers }
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository             { return s.repos.Sales }
func (s *NoOpTransactionScope) FinanceRecordRepo() finance.FinanceRecordRepository {
	return s.repos.FinanceRecords
}
func (s *NoOpTransactionScope) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return s.repos.PurchaseOrders
}
func (s *NoOpTransactionScope) PaymentMethodRepo() trade.PaymentMethodRepository {
	return s.repos.PaymentMethods
}
func (s *NoOpTransactionScope) DeliveryMediumRepo() trade.DeliveryMediumRepository {
	return s.repos.DeliveryMedia
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
