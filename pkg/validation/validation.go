// Package validation carries user-correctable input errors across the
// service boundary so handlers can tell them apart from persistence
// failures, which must never reach the client verbatim.
package validation

import (
	"errors"
	"fmt"
)

// Error is an input error the caller can fix by changing the request.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Errorf builds an Error with fmt-style formatting.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether err is, or wraps, a validation Error.
func IsError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
