package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError carries a user-facing message; handlers map it to 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func Invalidf(format string, a ...any) error {
	return ValidationError(fmt.Sprintf(format, a...))
}
