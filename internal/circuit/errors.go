package circuit

import (
	"errors"
	"fmt"
)

// Error kinds. Every *ValidationError unwraps to exactly one of these.
var (
	ErrSchema        = errors.New("schema error")
	ErrRange         = errors.New("range error")
	ErrSemantic      = errors.New("semantic error")
	ErrResourceLimit = errors.New("resource limit exceeded")
)

// ValidationError describes the first problem found in a request.
type ValidationError struct {
	Kind  error
	Step  int // -1 when the problem is not tied to one operation
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func stepErrorf(kind error, step int, field, format string, args ...any) *ValidationError {
	msg := fmt.Sprintf(format, args...)
	return &ValidationError{
		Kind:  kind,
		Step:  step,
		Field: field,
		Msg:   fmt.Sprintf("%s (step %d)", msg, step),
	}
}
