// Package httperr defines the error kinds shared by all services and the
// single place where they are rendered to HTTP. Services return *Error;
// handlers hand anything they get to Respond.
package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindTooLarge        Kind = "payload_too_large"
	KindInternal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error      { return New(KindValidation, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func TooLarge(message string) *Error        { return New(KindTooLarge, message) }
func Internal(err error) *Error             { return Wrap(KindInternal, "internal error", err) }

func statusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindTooLarge:
		return fiber.StatusRequestEntityTooLarge
	default:
		return fiber.StatusInternalServerError
	}
}

// Body is the client-visible error shape.
type Body struct {
	Error   Kind   `json:"error"`
	Message string `json:"message"`
}

// Respond maps an error to its HTTP response. Unrecognized errors become
// internal and their details stay server-side.
func Respond(c *fiber.Ctx, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}
	msg := e.Message
	if e.Kind == KindInternal {
		msg = "internal error"
	}
	return c.Status(statusFor(e.Kind)).JSON(Body{Error: e.Kind, Message: msg})
}

// KindOf reports the kind of err, or KindInternal for unknown errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
