// internal/pkg/apperr/apperr.go
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindValidation
)

// Error is a classified error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden creates an ownership/permission error
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Validation creates a business-rule rejection error
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Internal wraps an unexpected error with a user-facing message
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of an error, KindInternal for unclassified errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsForbidden reports whether err is an ownership/permission error
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

// IsValidation reports whether err is a business-rule rejection
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// Status maps an error to its HTTP status code
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for an error. Unclassified
// errors get a generic message so internals are never leaked.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Erro interno do servidor"
}
