// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package apperr defines the centralized error handling framework for the
NFT series registry.

It provides a rich error type that bridges the gap between low-level
Domain/Storage errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Every failure kind the registry can produce has a stable,
    matchable code (NOT_FOUND, SUPPLY_EXHAUSTED, APPROVAL_MISMATCH, ...).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Stable, machine-readable error codes. External callers match on these,
// never on the human-readable message.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeSupplyMismatch      = "SUPPLY_MISMATCH"
	CodeSupplyExhausted     = "SUPPLY_EXHAUSTED"
	CodeApprovalMismatch    = "APPROVAL_MISMATCH"
	CodeInvalidTransfer     = "INVALID_TRANSFER"
	CodeInsufficientDeposit = "INSUFFICIENT_DEPOSIT"
	CodeTooManyRecipients   = "TOO_MANY_RECIPIENTS"
	CodeNotEmpty            = "NOT_EMPTY"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the registry API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "SUPPLY_EXHAUSTED").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Token") // Returns "Token not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError] for calls by the wrong principal.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// AlreadyExists creates a 409 [AppError] for duplicate or unique-constraint
// violations (e.g. a series title that is already taken).
func AlreadyExists(msg string) *AppError {
	return &AppError{
		Code:       CodeAlreadyExists,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// SupplyMismatch creates a 422 [AppError] for asset pools whose supply total
// does not match the declared number of copies.
func SupplyMismatch(msg string) *AppError {
	return &AppError{
		Code:       CodeSupplyMismatch,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// SupplyExhausted creates a 409 [AppError] for mints against a series whose
// copies cap has been reached.
func SupplyExhausted(msg string) *AppError {
	return &AppError{
		Code:       CodeSupplyExhausted,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ApprovalMismatch creates a 409 [AppError] for transfers carrying a stale or
// incorrect expected approval id.
func ApprovalMismatch(msg string) *AppError {
	return &AppError{
		Code:       CodeApprovalMismatch,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidTransfer creates a 400 [AppError] for structurally invalid transfers
// (e.g. current and next owner are the same account).
func InvalidTransfer(msg string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransfer,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InsufficientDeposit creates a 402 [AppError] for mutating calls whose
// attached deposit does not cover the computed storage cost.
func InsufficientDeposit(msg string) *AppError {
	return &AppError{
		Code:       CodeInsufficientDeposit,
		Message:    msg,
		HTTPStatus: http.StatusPaymentRequired,
	}
}

// TooManyRecipients creates a 422 [AppError] for royalty tables whose fan-out
// exceeds the caller's declared budget.
func TooManyRecipients(msg string) *AppError {
	return &AppError{
		Code:       CodeTooManyRecipients,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NotEmpty creates a 409 [AppError] for deletion of a series that still
// contains minted tokens.
func NotEmpty(msg string) *AppError {
	return &AppError{
		Code:       CodeNotEmpty,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err is an [*AppError] carrying the given code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
