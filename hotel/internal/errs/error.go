package errs

import (
	"errors"
	"fmt"
)

// Kinds of failures a request can end with. Every error returned by the services
// matches exactly one of them under errors.Is, or none for internal failures.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func Unauthenticated(format string, args ...any) error {
	return newError(ErrUnauthenticated, format, args...)
}

// ConflictError reports a stay overlapping a confirmed reservation of the same room.
type ConflictError struct {
	ReservationID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room is already booked for these dates by reservation %d", e.ReservationID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
