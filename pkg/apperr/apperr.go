// Package apperr carries error kinds shared across bounded contexts.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed client input. Handlers map it to a 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
