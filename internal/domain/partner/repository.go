package partner

import "context"

// SupplierRepository resolves suppliers by phone
type SupplierRepository interface {
	// FindOrCreate returns the stored supplier with the same phone, inserting
	// the given one when none exists. Two calls with the same phone yield one row.
	FindOrCreate(ctx context.Context, supplier *Supplier) (*Supplier, error)
}

// CustomerRepository resolves customers by phone
type CustomerRepository interface {
	// FindOrCreate returns the stored customer with the same phone, inserting
	// the given one when none exists
	FindOrCreate(ctx context.Context, customer *Customer) (*Customer, error)
}
