package trade

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentMethod is reference data keyed by name (cash, card, transfer...)
type PaymentMethod struct {
	shared.BaseEntity
	Name string
}

// NewPaymentMethod creates a payment method
func NewPaymentMethod(name string) (*PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationFailure(uuid.Nil, "payment method cannot be empty")
	}
	return &PaymentMethod{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// DeliveryMedium is reference data keyed by name (courier, pickup...)
type DeliveryMedium struct {
	shared.BaseEntity
	Name string
}

// NewDeliveryMedium creates a delivery medium
func NewDeliveryMedium(name string) (*DeliveryMedium, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationFailure(uuid.Nil, "delivery medium cannot be empty")
	}
	return &DeliveryMedium{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}
