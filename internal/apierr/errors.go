// Package apierr defines the error taxonomy shared by services and HTTP
// handlers. Every failure a handler can surface is one of the kinds below;
// anything else is treated as internal and sanitized before it reaches the
// client.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindWrongCredentials
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

// Error is an error carrying a Kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, server-side only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation reports malformed input the caller can correct.
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict reports a duplicate unique key.
func Conflict(message string) *Error { return New(KindConflict, message) }

// WrongCredentials reports a failed login. The message is deliberately the
// same whether the email is unknown or the password is wrong.
func WrongCredentials() *Error {
	return New(KindWrongCredentials, "incorrect email or password")
}

// Unauthenticated reports a missing, malformed, or expired token.
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

// Forbidden reports an authenticated caller acting on a resource it does not own.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// NotFound reports a resolved identity or resource that no longer exists.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Internal wraps a server-side failure. Its message is never shown to the
// client; HTTPStatus/ClientMessage substitute a generic one.
func Internal(err error) *Error {
	return Wrap(KindInternal, "internal server error", err)
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindWrongCredentials, KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to put on the wire for err.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
