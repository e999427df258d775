package operation

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every validation and decode failure.
// Use errors.Is(err, ErrInvalidArgument).
var ErrInvalidArgument = errors.New("invalid argument")

// ValidationError describes why an operation was rejected.
type ValidationError struct {
	// Property is the operation's property (may be empty).
	Property string

	// Operator is the operation's operator tag (may be empty).
	Operator Operator

	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Property != "" || e.Operator != "" {
		return fmt.Sprintf("invalid operation (property=%q, operator=%q): %s", e.Property, e.Operator, e.Reason)
	}
	return fmt.Sprintf("invalid operation: %s", e.Reason)
}

// Is makes every ValidationError match ErrInvalidArgument.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// IsInvalid returns true if err is (or wraps) a validation failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func invalid(h Header, format string, args ...any) *ValidationError {
	return &ValidationError{
		Property: h.Property,
		Operator: h.Operator,
		Reason:   fmt.Sprintf(format, args...),
	}
}

// IndexedError locates a failure within Criteria.
type IndexedError struct {
	Index int
	Err   error
}

func (e *IndexedError) Error() string {
	return fmt.Sprintf("operation[%d]: %v", e.Index, e.Err)
}

func (e *IndexedError) Unwrap() error {
	return e.Err
}
