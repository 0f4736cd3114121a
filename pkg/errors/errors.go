package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeEmptyExport ErrorType = "empty_export"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an API or export error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error
func New(errorType ErrorType, message string, code int) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// TypeOf extracts the error type from an error chain, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Type
	}
	return ErrorTypeUnknown
}

// IsNotFound reports whether the error marks a missing profile or resource
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsEmptyExport reports whether the error marks an export with zero rows
func IsEmptyExport(err error) bool {
	return TypeOf(err) == ErrorTypeEmptyExport
}

// IsTransport reports whether the error came from the network or the remote
// server rather than from the payload itself
func IsTransport(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNetwork, ErrorTypeServerError, ErrorTypeRateLimit:
		return true
	}
	return false
}
