// Package errors provides domain-specific error types for the homedash application.
//
// This package defines structured errors with error codes, making it easier to handle
// and test different error conditions consistently across the application.
package errors

import "fmt"

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeNotFound indicates that a catalog entry does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDuplicateURL indicates that an entry with the same URL is already in the catalog.
	ErrCodeDuplicateURL ErrorCode = "DUPLICATE_URL"

	// ErrCodeFileRead indicates that one import source could not be read.
	ErrCodeFileRead ErrorCode = "FILE_READ_ERROR"

	// ErrCodePersistence indicates that the data file could not be read or written.
	ErrCodePersistence ErrorCode = "PERSISTENCE_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinel values for errors.Is checks. Matching is done by code only.
var (
	ErrNotFound     = &Error{Code: ErrCodeNotFound}
	ErrDuplicateURL = &Error{Code: ErrCodeDuplicateURL}
	ErrFileRead     = &Error{Code: ErrCodeFileRead}
	ErrPersistence  = &Error{Code: ErrCodePersistence}
	ErrValidation   = &Error{Code: ErrCodeValidation}
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrCodeInternal
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewNotFoundError reports a missing catalog entry.
func NewNotFoundError(id string) *Error {
	return New(ErrCodeNotFound, fmt.Sprintf("entry '%s' not found", id))
}

// NewDuplicateURLError reports a uniqueness violation on the entry URL.
func NewDuplicateURLError(url string) *Error {
	return New(ErrCodeDuplicateURL, fmt.Sprintf("an entry with url '%s' already exists", url))
}

// NewFileReadError reports an unreadable import source.
func NewFileReadError(name string, cause error) *Error {
	return Wrap(ErrCodeFileRead, fmt.Sprintf("failed to read '%s'", name), cause)
}

// NewPersistenceError creates a new storage error.
func NewPersistenceError(message string, cause error) *Error {
	return Wrap(ErrCodePersistence, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
