package catalog

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductCategory is reference data keyed by its name
type ProductCategory struct {
	shared.BaseEntity
	Name string
}

// NewProductCategory creates a category; the name is its natural key
func NewProductCategory(name string) (*ProductCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationFailure(uuid.Nil, "category name cannot be empty")
	}
	return &ProductCategory{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
