package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// Error codes surfaced by the order, stock and finance core
const (
	CodeStateViolation        = "STATE_VIOLATION"
	CodeValidationFailure     = "VALIDATION_FAILURE"
	CodeNotFound              = "NOT_FOUND"
	CodeStockInsufficient     = "STOCK_INSUFFICIENT"
	CodeConflictActiveRestock = "CONFLICT_ACTIVE_RESTOCK"
	CodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
)

// DomainError is a typed failure carrying a code, a human-readable message
// and the identifier of the entity that caused it.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.ID == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (id=%s)", e.Message, e.ID)
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches every not-found failure.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Wrap returns a copy of the error carrying cause
func (e *DomainError) Wrap(cause error) *DomainError {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithID returns a copy of the error bound to the offending identifier
func (e *DomainError) WithID(id uuid.UUID) *DomainError {
	cp := *e
	if id != uuid.Nil {
		cp.ID = id.String()
	}
	return &cp
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinels for errors.Is comparisons
var (
	ErrStateViolation        = NewDomainError(CodeStateViolation, "Operation not allowed in current state")
	ErrValidationFailure     = NewDomainError(CodeValidationFailure, "Validation failed")
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrStockInsufficient     = NewDomainError(CodeStockInsufficient, "Insufficient stock available")
	ErrConflictActiveRestock = NewDomainError(CodeConflictActiveRestock, "An active restock already exists for this product")
	ErrConcurrencyConflict   = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)

// NewStateViolation reports a mutation attempted on an entity whose state forbids it
func NewStateViolation(id uuid.UUID, format string, args ...any) *DomainError {
	return NewDomainError(CodeStateViolation, fmt.Sprintf(format, args...)).WithID(id)
}

// NewValidationFailure reports a broken input or payment/cost invariant
func NewValidationFailure(id uuid.UUID, format string, args ...any) *DomainError {
	return NewDomainError(CodeValidationFailure, fmt.Sprintf(format, args...)).WithID(id)
}

// NewNotFound reports an unknown order or product identifier
func NewNotFound(id uuid.UUID, format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...)).WithID(id)
}

// NewStockInsufficient reports a decrement larger than the quantity on hand
func NewStockInsufficient(productID uuid.UUID, requested, available int) *DomainError {
	return NewDomainError(
		CodeStockInsufficient,
		fmt.Sprintf("Requested quantity %d exceeds available stock %d", requested, available),
	).WithID(productID)
}

// NewConflictActiveRestock reports a second pending restock for the same product
func NewConflictActiveRestock(productID uuid.UUID) *DomainError {
	return ErrConflictActiveRestock.WithID(productID)
}

// NewConcurrencyConflict reports a failed optimistic version check
func NewConcurrencyConflict(id uuid.UUID) *DomainError {
	return ErrConcurrencyConflict.WithID(id)
}
