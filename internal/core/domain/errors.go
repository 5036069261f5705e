package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the store, the query engine and the
// services wraps exactly one of these.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnauthenticated     = errors.New("unauthenticated")
)

var (
	ErrUserNotFound       = New(ErrNotFound, "user not found")
	ErrCaseNotFound       = New(ErrNotFound, "case not found")
	ErrTimeEntryNotFound  = New(ErrNotFound, "time entry not found")
	ErrDocumentNotFound   = New(ErrNotFound, "document not found")
	ErrEmailTaken         = New(ErrConflict, "email already in use")
	ErrInvalidCredentials = New(ErrUnauthenticated, "invalid credentials")
	ErrInvalidStatus      = New(ErrInvalidArgument, "invalid status value")
	ErrInvalidHours       = New(ErrInvalidArgument, "hours must be greater than 0 and at most 24")
)

// kindError carries a message of its own while still matching its kind
// under errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns an error with message msg that wraps kind.
func New(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

// Errorf is New with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return &kindError{msg: fmt.Sprintf(format, args...), kind: kind}
}

// Kind names an error class for logging and metrics labels.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindConstraintViolation Kind = "constraint_violation"
	KindForbidden           Kind = "forbidden"
	KindInvalidArgument     Kind = "invalid_argument"
	KindUnauthenticated     Kind = "unauthenticated"
	KindInternal            Kind = "internal"
)

// KindOf classifies err. Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrConstraintViolation):
		return KindConstraintViolation
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	default:
		return KindInternal
	}
}

// Invalidf builds an ErrInvalidArgument with a formatted message.
func Invalidf(format string, args ...any) error {
	return Errorf(ErrInvalidArgument, format, args...)
}
