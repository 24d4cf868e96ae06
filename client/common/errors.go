package common

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// ErrorKind classifies client errors.
type ErrorKind uint8

const (
	// ErrUnknown is the zero value and should never be returned on purpose
	ErrUnknown ErrorKind = iota
	// ErrConnection indicates a transport establishment failure
	// (unreachable peer or timeout during connect)
	ErrConnection
	// ErrAuthentication indicates the server rejected the handshake
	ErrAuthentication
	// ErrQuery indicates a send/receive failure on an established connection
	// or a locally detected precondition failure (e.g. no space selected)
	ErrQuery
	// ErrPoolExhausted indicates that no connection is available and the
	// pool is at capacity or shut down
	ErrPoolExhausted
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrConnection:
		return "connection error"
	case ErrAuthentication:
		return "authentication error"
	case ErrQuery:
		return "query error"
	case ErrPoolExhausted:
		return "pool exhausted"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by all client operations. It wraps an
// ErrorKind and a message.
type Error struct {
	Kind ErrorKind // The error classification
	Msg  string    // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("shibudb: %s: %s", e.Kind, e.Msg)
}

// NewError creates a new Error with the given kind and message.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{
		Kind: kind,
		Msg:  msg,
	}
}

// NewErrorf creates a new Error with the given kind and a formatted message.
func NewErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// IsKind reports whether err (or an error it wraps) is a client Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
