package dto

import (
	"net/http"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Transport error codes. Domain failures keep the code of the
// shared.DomainError that caused them.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeUnavailable:  http.StatusServiceUnavailable,

	shared.CodeValidationFailure:     http.StatusBadRequest,
	shared.CodeNotFound:              http.StatusNotFound,
	shared.CodeConflictActiveRestock: http.StatusConflict,
	shared.CodeConcurrencyConflict:   http.StatusConflict,
	shared.CodeStateViolation:        http.StatusUnprocessableEntity,
	shared.CodeStockInsufficient:     http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
