// Package pberr defines the error taxonomy returned by the auth and document store facades.
//
// Every facade failure is an *Error carrying a Kind, the operation that failed and the underlying cause. Callers
// match on kind with errors.Is against the package sentinels:
//
//	if errors.Is(err, pberr.ErrConflict) { ... }
package pberr

import (
	stderrors "errors"
	"fmt"

	"github.com/Salehmangrio/postbase/internal/backend"
)

type Kind int

const (
	KindTransport Kind = iota
	KindAuth
	KindConflict
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	default:
		return "transport"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	default:
		return fmt.Sprintf("%s error", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work as kind tests.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrAuth       = &Error{Kind: KindAuth}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrTransport  = &Error{Kind: KindTransport}
)

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Auth(op string, err error) *Error       { return New(KindAuth, op, err) }
func Conflict(op string, err error) *Error   { return New(KindConflict, op, err) }
func NotFound(op string, err error) *Error   { return New(KindNotFound, op, err) }
func Validation(op string, err error) *Error { return New(KindValidation, op, err) }
func Transport(op string, err error) *Error  { return New(KindTransport, op, err) }

// Validationf builds a validation error from a message.
func Validationf(op string, format string, args ...any) *Error {
	return Validation(op, fmt.Errorf(format, args...))
}

// FromBackend classifies an error returned by a backend implementation. Errors that are already classified keep
// their kind; unknown errors are treated as transport failures.
func FromBackend(op string, err error) error {
	if err == nil {
		return nil
	}

	var already *Error
	if stderrors.As(err, &already) {
		return err
	}

	switch {
	case stderrors.Is(err, backend.ErrUnauthorized):
		return Auth(op, err)
	case stderrors.Is(err, backend.ErrConflict):
		return Conflict(op, err)
	case stderrors.Is(err, backend.ErrNotFound):
		return NotFound(op, err)
	case stderrors.Is(err, backend.ErrInvalid):
		return Validation(op, err)
	default:
		return Transport(op, err)
	}
}

// KindOf returns the kind of a facade error, and false if err is not one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return KindTransport, false
}
