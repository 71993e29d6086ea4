package partner

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier is the vendor a purchase order is placed with. Phone is the
// natural key used for idempotent upserts.
type Supplier struct {
	shared.BaseEntity
	Name    string
	Phone   string
	Email   string
	Address string
}

// NewSupplier creates a supplier with a normalized phone
func NewSupplier(name, phone, email, address string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	phone = NormalizePhone(phone)
	if name == "" {
		return nil, shared.NewValidationFailure(uuid.Nil, "supplier name cannot be empty")
	}
	if len(phone) < 5 {
		return nil, shared.NewValidationFailure(uuid.Nil, "supplier phone is invalid")
	}
	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
		Email:      strings.TrimSpace(email),
		Address:    strings.TrimSpace(address),
	}, nil
}
