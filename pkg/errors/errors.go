package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// Pipeline errors. Analysis and persistence failures degrade to a
	// fallback state instead of reaching the user; capture and auth
	// failures are the only user-visible categories.
	ErrorTypeCaptureUnavailable ErrorType = "CAPTURE_UNAVAILABLE"
	ErrorTypeAnalysis           ErrorType = "ANALYSIS"
	ErrorTypePersistence        ErrorType = "PERSISTENCE"
	ErrorTypeAuth               ErrorType = "AUTH"

	// Infrastructure errors
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches AppErrors by type and code so sentinel comparisons survive wrapping
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Type == appErr.Type && (appErr.Code == "" || e.Code == appErr.Code)
	}
	return false
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewCaptureUnavailableError creates an error for a missing capture source.
// User-visible, recoverable via manual upload.
func NewCaptureUnavailableError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeCaptureUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewAnalysisError creates an error for a failed remote analysis call
func NewAnalysisError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAnalysis,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewPersistenceError creates an error for a failed remote store operation
func NewPersistenceError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewAuthError creates an auth error with a user-facing recoverable message
func NewAuthError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuth,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewExternalError creates an error for an upstream service failure
func NewExternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
	}
}

// Sentinel auth conditions surfaced by the managed auth provider. The
// session layer maps these to the specific sign-in/sign-up messages the
// UI shows; everything else stays a generic auth failure.
var (
	ErrInvalidCredentials      = NewAuthError("invalid email or password").WithCode("invalid_credentials")
	ErrEmailNotConfirmed       = NewAuthError("email address has not been verified").WithCode("email_not_confirmed")
	ErrAccountExists           = NewAuthError("an account with this email already exists").WithCode("account_exists")
	ErrAccountExistsUnverified = NewAuthError("account exists but the email is unverified").WithCode("account_exists_unverified")
)

// GetHTTPStatus extracts the HTTP status from an error, defaulting to 500
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Is re-exports errors.Is for callers that only import this package
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As re-exports errors.As
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
