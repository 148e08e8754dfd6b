package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Request errors
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// Application errors
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// Collaborator errors
	ErrorTypeConfigUnavailable ErrorType = "CONFIG_UNAVAILABLE"
	ErrorTypeConnection        ErrorType = "CONNECTION"
	ErrorTypeQuery             ErrorType = "QUERY"
	ErrorTypeExternal          ErrorType = "EXTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
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

func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return b.String()
}

func newAppError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		Cause:      cause,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, nil)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, nil)
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(service string) *AppError {
	return newAppError(ErrorTypeUnavailable, http.StatusServiceUnavailable,
		fmt.Sprintf("service '%s' is unavailable", service), nil)
}

// NewConfigUnavailableError reports that a configuration value could not be
// read from the remote store: access was denied or the name does not exist.
func NewConfigUnavailableError(name string, cause error) *AppError {
	return newAppError(ErrorTypeConfigUnavailable, http.StatusServiceUnavailable,
		fmt.Sprintf("parameter '%s' is unavailable", name), cause)
}

// NewConnectionError reports a transport-level failure reaching the graph database.
func NewConnectionError(endpoint string, cause error) *AppError {
	return newAppError(ErrorTypeConnection, http.StatusBadGateway,
		fmt.Sprintf("connection to '%s' failed", endpoint), cause)
}

// NewQueryError reports a query rejected or failed by the graph database.
func NewQueryError(message string) *AppError {
	return newAppError(ErrorTypeQuery, http.StatusBadGateway, message, nil)
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return newAppError(ErrorTypeExternal, http.StatusBadGateway,
		fmt.Sprintf("external service '%s' error", service), err)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsConfigUnavailable checks if an error is a config-unavailable error
func IsConfigUnavailable(err error) bool {
	return IsType(err, ErrorTypeConfigUnavailable)
}

// IsConnection checks if an error is a connection error
func IsConnection(err error) bool {
	return IsType(err, ErrorTypeConnection)
}

// IsQuery checks if an error is a query error
func IsQuery(err error) bool {
	return IsType(err, ErrorTypeQuery)
}

// Payload flattens an error into the single line of text shown to callers.
// Connection and query failures are not distinguished here.
func Payload(err error) string {
	if err == nil {
		return ""
	}
	appErr := GetAppError(err)
	if appErr == nil {
		return err.Error()
	}
	if appErr.Cause != nil {
		return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
	}
	return appErr.Message
}
