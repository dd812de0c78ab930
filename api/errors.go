// File: api/errors.go
// License: Apache-2.0
//
// Common error values and the structured error type used across the
// http-handler core.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	// ErrStreamClosed reports a read or write against a half that has
	// been closed, or whose peer half is gone.
	ErrStreamClosed = errors.New("stream is closed")

	// ErrAlreadyConsumed reports a second consumption of a one-shot
	// resource, such as a body's chunk reader.
	ErrAlreadyConsumed = errors.New("resource already consumed")

	// ErrInvalidArgument reports an out-of-range constructor argument.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeStreamClosed
	ErrCodeAlreadyConsumed
	ErrCodeInvalidArgument
	ErrCodeInternal
)

// Error is a structured error carrying a code and an optional wrapped
// cause, so callers can match on both the code and the sentinel value.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the wrapped sentinel for errors.Is matching.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a structured error wrapping a sentinel cause.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}
