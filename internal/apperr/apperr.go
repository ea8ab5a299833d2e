package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindConflict
	KindNotFound
	KindState
)

// Error carries a client-safe message and an optional wrapped cause.
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

// Validation reports malformed or missing input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Auth reports bad credentials or a bad/missing/expired token.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NotFound reports an absent record.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// State reports an operation that is invalid for the record's current state.
func State(msg string) *Error {
	return &Error{Kind: KindState, Message: msg}
}

// Internal wraps an unexpected collaborator failure behind a generic message.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// HTTPStatus maps an error to its response status. Anything that is not an
// *Error is treated as internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindState:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for an error. Unexpected errors get
// a generic message so internal detail never reaches the response body.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
