// Package errors provides structured error types for ratiogrid.
//
// Every contract violation raised by the layout core carries a Code so that
// callers (the CLI, the HTTP API, tests) can branch on the failure category
// without string matching.
//
// # Error Codes
//
// The layout core raises three codes:
//   - STALE_STATE: bounds were read before EnsureBounds brought them up to date
//   - INDEX_OUT_OF_RANGE: a window position or data index outside current bounds
//   - INVALID_CHILD_QUERY: a single-element operation was handed a composite element
//
// The surrounding tooling adds input, I/O and network codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStaleState, "bounds are not up to date")
//	if errors.Is(err, errors.ErrCodeStaleState) {
//	    // call EnsureBounds first
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "cache get %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout core contract violations
	ErrCodeStaleState        Code = "STALE_STATE"
	ErrCodeIndexOutOfRange   Code = "INDEX_OUT_OF_RANGE"
	ErrCodeInvalidChildQuery Code = "INVALID_CHILD_QUERY"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// StaleState reports a read of layout state that EnsureBounds has not refreshed.
func StaleState(what string) *Error {
	return New(ErrCodeStaleState, "%s isn't up to date", what)
}

// IndexOutOfRange reports an index outside [0, limit).
func IndexOutOfRange(kind string, index, limit int) *Error {
	return New(ErrCodeIndexOutOfRange, "%s %d out of range [0,%d)", kind, index, limit)
}
