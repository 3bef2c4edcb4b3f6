package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation        ErrorType = "VALIDATION"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeConflict          ErrorType = "CONFLICT"
	ErrorTypeDuplicateTrait    ErrorType = "DUPLICATE_TRAIT"
	ErrorTypeDanglingReference ErrorType = "DANGLING_REFERENCE"

	// Format and I/O errors
	ErrorTypeFormat ErrorType = "FORMAT"
	ErrorTypeIO     ErrorType = "IO"

	// Application errors
	ErrorTypeInternal ErrorType = "INTERNAL"

	// Infrastructure errors
	ErrorTypeDatabase ErrorType = "DATABASE"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
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

// WithDetail adds a single detail entry
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newAppError(t ErrorType, message string) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newAppError(ErrorTypeValidation, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newAppError(ErrorTypeConflict, message)
}

// NewDuplicateTraitError reports a trait label that is already in use within a frame
func NewDuplicateTraitError(label string) *AppError {
	return newAppError(ErrorTypeDuplicateTrait, fmt.Sprintf("duplicate trait %q", label)).
		WithDetail("trait", label)
}

// NewDanglingReferenceError reports a traversal from a node the edge does not touch
func NewDanglingReferenceError(message string) *AppError {
	return newAppError(ErrorTypeDanglingReference, message)
}

// NewFormatError creates a graph format error
func NewFormatError(message string) *AppError {
	return newAppError(ErrorTypeFormat, message)
}

// NewIOError creates an I/O error for the given operation
func NewIOError(operation string, err error) *AppError {
	return newAppError(ErrorTypeIO, fmt.Sprintf("%s failed", operation)).WithCause(err)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, message)
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return newAppError(ErrorTypeDatabase, fmt.Sprintf("database operation '%s' failed", operation)).
		WithCause(err)
}

// Helper functions

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

// IsType checks if an error is of a specific type.
// Aggregated errors (anything exposing WrappedErrors) match when any member does.
func IsType(err error, errType ErrorType) bool {
	if agg, ok := err.(interface{ WrappedErrors() []error }); ok {
		for _, e := range agg.WrappedErrors() {
			if IsType(e, errType) {
				return true
			}
		}
		return false
	}
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

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsDuplicateTrait checks if an error is a duplicate trait error
func IsDuplicateTrait(err error) bool {
	return IsType(err, ErrorTypeDuplicateTrait)
}

// IsDanglingReference checks if an error is a dangling reference error
func IsDanglingReference(err error) bool {
	return IsType(err, ErrorTypeDanglingReference)
}

// IsFormat checks if an error is a format error
func IsFormat(err error) bool {
	return IsType(err, ErrorTypeFormat)
}

// IsIO checks if an error is an I/O error
func IsIO(err error) bool {
	return IsType(err, ErrorTypeIO)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
