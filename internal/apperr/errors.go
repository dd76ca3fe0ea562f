// Package apperr defines the error kinds that cross the service boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

// Error is a client-facing failure. None of its kinds is retried.
type Error struct {
	Kind    Kind
	Message string
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NotFound reports a missing entity
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports violated field constraints; details lists each of them
func Validation(details any) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Details: details}
}

// Forbidden reports a caller that may not perform the operation
func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// KindOf returns the kind of err, looking through wrapped errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
