package catalog

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Descriptor identifies what a product is: its name, category and free-form
// specifications. Purchase orders carry one until a Product is materialized.
type Descriptor struct {
	Name           string
	Category       string
	Specifications string
}

// Normalize trims surrounding whitespace from every field
func (d Descriptor) Normalize() Descriptor {
	return Descriptor{
		Name:           strings.TrimSpace(d.Name),
		Category:       strings.TrimSpace(d.Category),
		Specifications: strings.TrimSpace(d.Specifications),
	}
}

// Validate checks the descriptor has a usable name and category
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return shared.NewValidationFailure(uuid.Nil, "product name cannot be empty")
	}
	if len(d.Name) > 200 {
		return shared.NewValidationFailure(uuid.Nil, "product name cannot exceed 200 characters")
	}
	if d.Category == "" {
		return shared.NewValidationFailure(uuid.Nil, "product category cannot be empty")
	}
	if len(d.Category) > 100 {
		return shared.NewValidationFailure(uuid.Nil, "product category cannot exceed 100 characters")
	}
	return nil
}
