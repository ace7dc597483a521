package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies errors raised by the synchronous command surface. The
// asynchronous import run never surfaces its outcomes through this package;
// those land in the import log instead.
type Kind int

const (
	// InvalidParameter: malformed command input (bad id format, missing
	// required field, enum value outside the allowed set).
	InvalidParameter Kind = iota
	// NotFound: a referenced aggregate does not exist.
	NotFound
	// AlreadyExists: the command conflicts with a live aggregate, e.g.
	// another import is currently running.
	AlreadyExists
	// Unprocessable: the command is invalid for the aggregate's current
	// state, e.g. starting an already-terminal import.
	Unprocessable
	// Unexpected: downstream failure (storage, persistence).
	Unexpected
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// StatusCode maps an error to the HTTP status used by the fiber error handler.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case InvalidParameter:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	case AlreadyExists:
		return fiber.StatusConflict
	case Unprocessable:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
