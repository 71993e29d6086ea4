package models

// All returns every model in dependency order, for AutoMigrate in tests and
// development.
func All() []any {
	return []any{
		&CategoryModel{},
		&SupplierModel{},
		&CustomerModel{},
		&PaymentMethodModel{},
		&DeliveryMediumModel{},
		&ProductModel{},
		&PurchaseOrderModel{},
		&SaleModel{},
		&SaleItemModel{},
		&FinanceRecordModel{},
	}
}
