// Package errors provides structured error types for cargo-vendor.
//
// This package defines error codes and types that enable:
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//   - A context stack recording which package and stage failed
//
// # Error Codes
//
// Codes name the failure kind, not the call site:
//   - INVALID_INPUT, INVALID_MANIFEST, INVALID_PACKAGE: rejected input
//   - DIRECTORY_EXISTS, PATH_NOT_URL: destination preparation
//   - ARCHIVE_NOT_FOUND, IO_FAILURE, CHECKSUM_MISMATCH: per-package vendoring
//   - REPOSITORY_*: version control of the index tree
//   - SERIALIZATION_FAILURE, INTERNAL_ERROR: invariant violations
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "empty package name")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors and attach context
//	err = errors.Wrap(errors.ErrCodeIO, origErr, "copy %s", path)
//	err = errors.Annotate(err, "package", "serde 1.0.193")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"

	// Destination preparation errors
	ErrCodeDirectoryExists Code = "DIRECTORY_EXISTS"
	ErrCodePathNotURL      Code = "PATH_NOT_URL"

	// Per-package errors
	ErrCodeArchiveNotFound  Code = "ARCHIVE_NOT_FOUND"
	ErrCodeIO               Code = "IO_FAILURE"
	ErrCodeChecksumMismatch Code = "CHECKSUM_MISMATCH"

	// Version control errors
	ErrCodeRepositoryInit   Code = "REPOSITORY_INIT_FAILURE"
	ErrCodeRepositoryCommit Code = "REPOSITORY_COMMIT_FAILURE"

	// Internal errors
	ErrCodeSerialization Code = "SERIALIZATION_FAILURE"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Frame is one entry of an error's context stack, e.g. {"stage", "copy"}.
type Frame struct {
	Key   string
	Value string
}

// Error is a structured error with a code, optional cause and context stack.
type Error struct {
	Code    Code    // Machine-readable error code
	Message string  // Human-readable message
	Cause   error   // Underlying error (optional)
	Context []Frame // Innermost frame first
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if len(e.Context) > 0 {
		b.WriteString(" (")
		for i, f := range e.Context {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Key)
			b.WriteString("=")
			b.WriteString(f.Value)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Lookup returns the value of the innermost frame with the given key.
func (e *Error) Lookup(key string) (string, bool) {
	for _, f := range e.Context {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
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

// Annotate pushes a context frame onto err.
//
// If err is an *Error it is copied and the frame appended, so the code and
// message survive. Any other error is wrapped, keeping the code of the first
// *Error in its chain or INTERNAL_ERROR when there is none.
// Annotate(nil, ...) returns nil.
func Annotate(err error, key, value string) error {
	if err == nil {
		return nil
	}
	frame := Frame{Key: key, Value: value}
	if e, ok := err.(*Error); ok {
		c := *e
		c.Context = append(append([]Frame(nil), e.Context...), frame)
		return &c
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return &Error{Code: code, Cause: err, Context: []Frame{frame}}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
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
// For *Error types, the code prefix is dropped and the context stack is
// rendered as a leading "package ...: stage ...:" chain.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	var b strings.Builder
	for i := len(e.Context) - 1; i >= 0; i-- {
		b.WriteString(e.Context[i].Key)
		b.WriteString(" ")
		b.WriteString(e.Context[i].Value)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		if e.Message != "" {
			b.WriteString(": ")
		}
		b.WriteString(UserMessage(e.Cause))
	}
	return b.String()
}
