package models

import (
	"errors"
	"fmt"
)

// Kind classifies a storage-layer failure so callers can branch on the
// failure class without matching message text.
type Kind string

// Failure kinds surfaced by the repositories.
const (
	KindConfiguration Kind = "CONFIGURATION"
	KindConnection    Kind = "CONNECTION"
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindIntegrity     Kind = "INTEGRITY"
	KindInternal      Kind = "INTERNAL"
)

// Error is the tagged error type returned by every repository operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError reports a missing or malformed connection parameter.
func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NewConnectionError reports a transport or auth failure against the engine.
func NewConnectionError(err error) *Error {
	return &Error{Kind: KindConnection, Message: "storage engine unreachable", Err: err}
}

// NewValidationError reports caller input that violates a precondition.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports an entity or relation that does not exist.
func NewNotFoundError(resource string, id interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

// NewNotFoundMessage reports absence where no single id applies, e.g. a
// credential pair with no match.
func NewNotFoundMessage(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewIntegrityError reports a write rejected by a storage-level constraint.
func NewIntegrityError(err error) *Error {
	return &Error{Kind: KindIntegrity, Message: "storage constraint violated", Err: err}
}

// NewInternalError wraps an unclassified engine failure.
func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal storage error", Err: err}
}

// KindOf returns the failure kind carried by err, or KindInternal when err
// is not a tagged storage error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err represents absence of an entity.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
