// Package apperror provides the classified error outcomes for the Ogonek
// backend. Every failure that crosses the request boundary is one of these
// types; the Echo error handler maps them to HTTP responses.
//
// NEVER return raw database or Redis errors to the client. Always wrap them
// in an apperror type or return a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 400, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// invalidCredentialsMessage is the single message returned for any login
// failure. Wrong password and unknown username are deliberately
// indistinguishable so the endpoint cannot be used to enumerate accounts.
const invalidCredentialsMessage = "Invalid username or password."

// TypeInvalidCredentials identifies the login failure produced by
// NewInvalidCredentials. Callers should use IsInvalidCredentials rather
// than comparing against it directly.
const TypeInvalidCredentials = "invalid_credentials"

// --- Constructors for common error types ---

// NewInvalidCredentials creates the generic 400 login failure. It takes no
// message argument on purpose: every caller must fail the same way.
func NewInvalidCredentials() *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeInvalidCredentials,
		Message: invalidCredentialsMessage,
	}
}

// NewUnauthenticated creates a 401 error for requests with a missing,
// expired, or invalidated session.
func NewUnauthenticated() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "unauthenticated",
		Message: "authentication required",
	}
}

// NewInvalidAPIKey creates a 401 error for requests that fail the API-key
// gate. Missing and mismatched keys produce the same response.
func NewInvalidAPIKey() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "invalid_api_key",
		Message: "a valid API key is required",
	}
}

// NewForbidden creates a 403 Forbidden error. In this application it only
// occurs for CSRF token mismatches on mutating requests.
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Type:    "forbidden",
		Message: message,
	}
}

// NewNotFound creates a 404 Not Found error. Also returned when a resource
// exists but belongs to another user, so ownership mismatches do not leak
// resource existence.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewValidation creates a 422 Unprocessable Entity error for validation failures.
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    "validation_error",
		Message: message,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// IsNotFound reports whether err is (or wraps) a 404 AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}

// IsInvalidCredentials reports whether err is (or wraps) the generic
// login failure from NewInvalidCredentials.
func IsInvalidCredentials(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == TypeInvalidCredentials
}

// SafeMessage returns the client-safe error message from an error. If the
// error is an AppError, returns its Message field (which is safe to expose).
// For any other error type, returns a generic message to prevent leaking
// internal details like table names, query structure, or stack traces.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
