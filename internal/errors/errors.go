package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates invalid input or configuration.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"

	// ErrCodeProviderExchange indicates the identity provider rejected a code exchange.
	ErrCodeProviderExchange ErrorCode = "provider_exchange"
	// ErrCodeStateMismatch indicates a callback whose anti-forgery state was not issued by us.
	ErrCodeStateMismatch ErrorCode = "state_mismatch"
	// ErrCodeInvalidToken indicates a session token failed verification for any reason.
	ErrCodeInvalidToken ErrorCode = "invalid_token"
	// ErrCodeProbeTimeout indicates a liveness probe exceeded its deadline.
	ErrCodeProbeTimeout ErrorCode = "probe_timeout"
	// ErrCodeProbeConnection indicates a liveness probe could not reach the app or got a non-success status.
	ErrCodeProbeConnection ErrorCode = "probe_connection"
	// ErrCodeRefreshFailure indicates an app-local provider token could not be obtained or refreshed.
	ErrCodeRefreshFailure ErrorCode = "refresh_failure"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError without a cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// ProviderExchange wraps a provider rejection of an authorization code.
func ProviderExchange(err error) *AppError {
	return &AppError{Code: ErrCodeProviderExchange, Message: "provider exchange failed", Cause: err}
}

// StateMismatch reports an unknown, reused, or unbound callback state.
func StateMismatch(reason string) *AppError {
	return New(ErrCodeStateMismatch, "state mismatch: "+reason)
}

// InvalidToken wraps any session token verification failure.
func InvalidToken(err error) *AppError {
	return &AppError{Code: ErrCodeInvalidToken, Message: "invalid session token", Cause: err}
}

// RefreshFailure wraps a failed local token acquisition or refresh.
func RefreshFailure(err error) *AppError {
	return &AppError{Code: ErrCodeRefreshFailure, Message: "token refresh failed", Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool { return isCode(err, ErrCodeCanceled) }

// IsProviderExchange checks if an error is a ProviderExchange error.
func IsProviderExchange(err error) bool { return isCode(err, ErrCodeProviderExchange) }

// IsStateMismatch checks if an error is a StateMismatch error.
func IsStateMismatch(err error) bool { return isCode(err, ErrCodeStateMismatch) }

// IsInvalidToken checks if an error is an InvalidToken error.
func IsInvalidToken(err error) bool { return isCode(err, ErrCodeInvalidToken) }

// IsProbeFailure reports whether err is either probe error class.
func IsProbeFailure(err error) bool {
	return isCode(err, ErrCodeProbeTimeout) || isCode(err, ErrCodeProbeConnection)
}

// IsRefreshFailure checks if an error is a RefreshFailure error.
func IsRefreshFailure(err error) bool { return isCode(err, ErrCodeRefreshFailure) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
