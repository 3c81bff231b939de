// Package apperrors carries HTTP-mapped application errors from handlers
// to the response writer.
package apperrors

import (
	"fmt"
	"net/http"
)

// Error pairs a message with the HTTP status it should be served with.
type Error struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Shared responses
var (
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)
