package dto

import (
	"net/http"
	"strings"
)

// Error code constants exposed on the wire.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication and authorization error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeInvalidCredentials is used when username/password verification fails
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountLocked is used when the account is locked out after failed logins
	ErrCodeAccountLocked = "ERR_ACCOUNT_LOCKED"
	// ErrCodeAccountInactive is used when the account cannot log in (pending/deactivated)
	ErrCodeAccountInactive = "ERR_ACCOUNT_INACTIVE"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid or revoked
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeEntityInUse is used when deletion is blocked by references
	ErrCodeEntityInUse = "ERR_ENTITY_IN_USE"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when available stock cannot cover a request
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeInsufficientPayment is used when the tendered amount is below the total
	ErrCodeInsufficientPayment = "ERR_INSUFFICIENT_PAYMENT"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusUnauthorized,
	ErrCodeAccountInactive:    http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeEntityInUse:         http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeInsufficientPayment: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes to their wire-level equivalents.
// Codes not listed here fall through to the prefix/suffix rules in
// NormalizeErrorCode.
var domainCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"ENTITY_IN_USE":        ErrCodeEntityInUse,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":      ErrCodeAccountLocked,
	"ACCOUNT_PENDING":     ErrCodeAccountInactive,
	"ACCOUNT_DEACTIVATED": ErrCodeAccountInactive,
	"ACCOUNT_INACTIVE":    ErrCodeAccountInactive,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_REVOKED":       ErrCodeTokenInvalid,
	"USER_NOT_FOUND":      ErrCodeNotFound,
	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"FORBIDDEN":           ErrCodeForbidden,

	"INVALID_STATE":        ErrCodeInvalidState,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"INSUFFICIENT_PAYMENT": ErrCodeInsufficientPayment,

	"VALIDATION_ERROR": ErrCodeValidation,
	"INVALID_INPUT":    ErrCodeValidation,
	"INVALID_PASSWORD": ErrCodeValidation,
	"INVALID_FILTER":   ErrCodeValidation,
	"INVALID_RANGE":    ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the stable wire format.
// Unlisted codes are classified by shape: lookups that missed map to
// not-found, duplicate-key checks to already-exists, malformed input to
// validation, and everything else to a business rule violation.
func NormalizeErrorCode(code string) string {
	if wire, ok := domainCodeMapping[code]; ok {
		return wire
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return ErrCodeNotFound
	case strings.HasPrefix(code, "DUPLICATE_"):
		return ErrCodeAlreadyExists
	case strings.HasPrefix(code, "INVALID_"), strings.HasPrefix(code, "UNKNOWN_"):
		return ErrCodeValidation
	case strings.HasPrefix(code, "ALREADY_"), strings.HasPrefix(code, "CANNOT_"):
		return ErrCodeInvalidState
	}
	return ErrCodeBusinessRule
}
