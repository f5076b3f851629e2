// Package serrors carries semantic error kinds from services up to the HTTP layer.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind struct{ name string }

func (k Kind) Error() string { return k.name }

var (
	ErrNotFound     = Kind{"NOT_FOUND"}
	ErrBadRequest   = Kind{"BAD_REQUEST"}
	ErrConflict     = Kind{"CONFLICT"}
	ErrForbidden    = Kind{"FORBIDDEN"}
	ErrUnauthorized = Kind{"UNAUTHORIZED"}
	ErrInternal     = Kind{"INTERNAL"}
)

// Error pairs a kind with a human readable message and an optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.kind.Error()
	}
}

// Message is the client facing text without the wrapped cause.
func (e *Error) Message() string {
	if e.msg != "" {
		return e.msg
	}
	return e.kind.Error()
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.kind == k
	}
	return false
}

// HTTPStatus maps an error chain to a status code. Unknown errors are 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the kind name for an error chain, INTERNAL when none matches.
func Code(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.kind.Error()
	}
	return ErrInternal.Error()
}

// PublicMessage hides internal causes from clients.
func PublicMessage(err error) string {
	var se *Error
	if errors.As(err, &se) && se.kind != ErrInternal {
		return se.Message()
	}
	return "internal server error"
}
