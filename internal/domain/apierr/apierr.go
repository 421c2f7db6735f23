// Package apierr formalizes the error taxonomy of spec §7 into a single
// error type. The teacher's handlers (auth_middleware.go) hand-write
// gin.H{"error": "...", "message": "..."} per call site; SynApSec gives that
// shape one constructor per Kind so every caller emits the same envelope.
package apierr

import "fmt"

// Kind is a stable taxonomy token, not a Go type hierarchy.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindConflict          Kind = "CONFLICT"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindStorage           Kind = "INTERNAL_ERROR"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// HTTPStatus maps a Kind to the status code the transport layer should use.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return 404
	case KindValidation:
		return 400
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindConflict:
		return 409
	case KindInvalidTransition:
		return 422
	default:
		return 500
	}
}

// Error is the single error type every core operation returns on failure.
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

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error          { return New(KindNotFound, message) }
func Validation(message string) *Error        { return New(KindValidation, message) }
func Unauthorized(message string) *Error      { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error         { return New(KindForbidden, message) }
func Conflict(message string) *Error          { return New(KindConflict, message) }
func InvalidTransition(message string) *Error { return New(KindInvalidTransition, message) }
func Storage(err error) *Error                { return Wrap(KindStorage, "storage failure", err) }
func Internal(message string) *Error          { return New(KindInternal, message) }

// KindOf returns err's Kind when err is itself an *Error (wrapped errors are
// not unwrapped), and false otherwise. Kind is not itself an error, so
// errors.Is cannot match on it.
func KindOf(err error) (Kind, bool) {
	if e, ok := err.(*Error); ok {
		return e.Kind, true
	}
	return "", false
}
