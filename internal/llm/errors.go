package llm

import "errors"

// invalidConfigError signals a rejected generation parameter, e.g. an empty
// stop string. Mapped to 400 by the HTTP layer.
type invalidConfigError struct{ msg string }

func (e invalidConfigError) Error() string { return "invalid configuration: " + e.msg }

// ErrInvalidConfig constructs an invalidConfigError.
func ErrInvalidConfig(msg string) error { return invalidConfigError{msg: msg} }

// IsInvalidConfig reports whether err indicates a rejected parameter.
func IsInvalidConfig(err error) bool {
	var e invalidConfigError
	return errors.As(err, &e)
}

// ErrSessionClosed is returned by operations on a released session.
var ErrSessionClosed = errors.New("session is closed")
