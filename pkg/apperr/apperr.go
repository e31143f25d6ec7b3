// Package apperr carries the error taxonomy every service in this repo
// reports through: a machine-checkable kind plus a human-readable message.
// Nothing here is retried internally; callers decide what to do with each kind.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// KindValidation: malformed or missing input; the caller can correct and retry.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindPrecondition: a state-machine guard is not satisfied; the caller must
	// resolve the named precondition before retrying the same call.
	KindPrecondition Kind = "PRECONDITION_FAILED"
	// KindForbidden: the actor lacks rights over this resource instance.
	KindForbidden Kind = "FORBIDDEN"
	// KindNotFound: a referenced entity is absent.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict: duplicate candidate, double submission, already evaluated.
	KindConflict Kind = "CONFLICT"
	// KindInternal: unexpected failure, e.g. a collaborator is unreachable.
	KindInternal Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error   { return New(KindValidation, message) }
func Precondition(message string) *Error { return New(KindPrecondition, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf extracts the kind from any error. Non-apperr errors are internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindPrecondition:
		return http.StatusPreconditionFailed
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the human-readable message, hiding internals of unexpected
// failures from clients.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "An unexpected error occurred on the server"
}
