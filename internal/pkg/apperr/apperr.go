package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Services wrap these; the HTTP error handler maps
// them onto status codes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

func Unauthorized(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
}

func Forbidden(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrForbidden)
}

func NotFound(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrNotFound)
}

func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

func Validationf(format string, args ...interface{}) error {
	return Validation(fmt.Sprintf(format, args...))
}

// Message strips the sentinel suffix for client display.
func Message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrValidation} {
		suffix := ": " + sentinel.Error()
		if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
			return msg[:len(msg)-len(suffix)]
		}
	}
	return msg
}
