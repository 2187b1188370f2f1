// Package errs provides the unified error type used by the EasyDB client
// outside the schema layer (connection handling, data operations, schema
// import). Schema validation has its own richer taxonomy in
// internal/schema; everything else wraps into *errs.Error so callers can
// branch on error kind without knowing which subsystem produced it.
//
// Usage:
//
//	// In a subsystem — wrap native errors:
//	return errs.Wrap(errs.ErrKindConnectionFailed, "dial failed", err)
//
//	// In a caller — check error kind:
//	if errs.IsUnsupported(err) {
//	    // operation not implemented by this client version
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises a client error without exposing subsystem-specific
// codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // unknown table, missing row
	ErrKindConnectionFailed         // cannot reach the server or backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindSchemaInvalid            // imported or loaded schema failed validation
	ErrKindUnsupported              // operation not implemented at this layer
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindSchemaInvalid:
		return "schema_invalid"
	case ErrKindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the client's non-schema
// subsystems. Producers attach a kind; callers inspect it via the Is*
// predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original lower-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing table or row.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsSchemaInvalid reports whether err means a loaded or imported schema
// failed validation.
func IsSchemaInvalid(err error) bool {
	return kindOf(err) == ErrKindSchemaInvalid
}

// IsUnsupported reports whether err means the operation is not implemented
// by this client version.
func IsUnsupported(err error) bool {
	return kindOf(err) == ErrKindUnsupported
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
