// Package errors provides structured error types for sdkorder.
//
// Errors carry a machine-readable [Code] so the CLI and any embedding
// generator can tell configuration failures (which abort a generation run)
// apart from bad user input:
//   - INVALID_*: manifest or flag validation failures
//   - *_NOT_FOUND: missing files, packages or reflection objects
//   - ALREADY_INITIALIZED, SOURCE_UNAVAILABLE: registry lifecycle failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// Cycles in the requirement graph are not errors; they are reported through
// callbacks by package packages.
//
// # Usage
//
//	err := errors.New(errors.ErrCodePackageNotFound, "package %d is not registered", id)
//	if errors.Is(err, errors.ErrCodePackageNotFound) {
//	    // abort the run
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidManifest, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidPackage   Code = "INVALID_PACKAGE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidManifest  Code = "INVALID_MANIFEST"
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeObjectNotFound  Code = "OBJECT_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Registry lifecycle errors
	ErrCodeAlreadyInitialized Code = "ALREADY_INITIALIZED"
	ErrCodeSourceUnavailable  Code = "SOURCE_UNAVAILABLE"

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

// IsFatal reports whether err must abort a generation run.
// Lifecycle and reference errors are fatal because every later step depends
// on a complete requirement graph.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeAlreadyInitialized, ErrCodeSourceUnavailable,
		ErrCodePackageNotFound, ErrCodeObjectNotFound, ErrCodeInvalidReference,
		ErrCodeInternal:
		return true
	}
	return false
}
