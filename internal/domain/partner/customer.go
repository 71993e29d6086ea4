package partner

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is the buyer on a sale, keyed by phone
type Customer struct {
	shared.BaseEntity
	Name    string
	Phone   string
	Email   string
	Address string
}

// NewCustomer creates a customer with a normalized phone
func NewCustomer(name, phone, email, address string) (*Customer, error) {
	name = strings.TrimSpace(name)
	phone = NormalizePhone(phone)
	if name == "" {
		return nil, shared.NewValidationFailure(uuid.Nil, "customer name cannot be empty")
	}
	if len(phone) < 5 {
		return nil, shared.NewValidationFailure(uuid.Nil, "customer phone is invalid")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
		Email:      strings.TrimSpace(email),
		Address:    strings.TrimSpace(address),
	}, nil
}
