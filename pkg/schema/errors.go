package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned when an attribute declares a kind other than
	// numeric or categorical.
	ErrUnknownKind = errors.New("schema: unknown attribute kind")
	// ErrDuplicateKey is returned when two attributes share a key.
	ErrDuplicateKey = errors.New("schema: duplicate attribute key")
	// ErrInvalidDefault is returned when a default value does not satisfy the
	// attribute constraints.
	ErrInvalidDefault = errors.New("schema: invalid default value")
	// ErrUnknownField is returned when a key is not part of the schema.
	ErrUnknownField = errors.New("schema: unknown field")

	// ErrNotNumeric signals input that cannot be read as a finite number.
	ErrNotNumeric = errors.New("schema: value is not a number")
	// ErrOutOfRange signals a number outside the attribute min/max.
	ErrOutOfRange = errors.New("schema: value out of range")
	// ErrStepMismatch signals a number that does not sit on the step grid.
	ErrStepMismatch = errors.New("schema: value does not match step")
	// ErrNotAChoice signals a categorical value outside the allowed codes.
	ErrNotAChoice = errors.New("schema: value is not an allowed choice")
)

// ValidationError is the widget-level rejection for a single attribute. Reason
// is short, human readable, and safe to show next to the input.
type ValidationError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func rejection(key string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Key:    key,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
