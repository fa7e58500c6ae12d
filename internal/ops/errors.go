package ops

import (
	"errors"
	"fmt"
)

// Errors reported by the codec.
var (
	// ErrInvalidJSON indicates input that is not a JSON document.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrUnknownOperation indicates an unsupported optype.
	ErrUnknownOperation = errors.New("unknown operation type")

	// ErrMissingField indicates a required field is absent.
	ErrMissingField = errors.New("missing field")

	// ErrFieldType indicates a field of the wrong JSON type.
	ErrFieldType = errors.New("wrong field type")
)

// DecodeError describes why an operation could not be decoded.
type DecodeError struct {
	// Index is the position in an operation list, or -1 for a single op.
	Index int

	// Field is the offending wire field, if any.
	Field string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	prefix := "decode operation"
	if e.Index >= 0 {
		prefix = fmt.Sprintf("decode operation %d", e.Index)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return fmt.Sprintf("%s: field %s: %v", prefix, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) *DecodeError {
	return &DecodeError{Index: -1, Field: field, Err: err}
}
