package failure

import (
	"errors"
	"fmt"
	"strings"
)

// CodeEmpty classifies a property rejected for being missing or blank.
// Failures outside the fixed code vocabulary carry an empty code.
const CodeEmpty = "empty"

// PropertyFailure describes a single field-level validation failure.
// Instances are created once per invalid field per request and treated
// as read-only afterwards.
type PropertyFailure struct {
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
	// Field is the name of the offending input field.
	Field string `json:"field"`
	// Code is the machine classification, CodeEmpty or blank.
	Code string `json:"code"`
	// RejectedValue is the value that failed, as originally supplied.
	RejectedValue any `json:"rejectedValue"`
}

// NewPropertyFailure creates an immutable property failure.
func NewPropertyFailure(message, field, code string, rejectedValue any) PropertyFailure {
	return PropertyFailure{
		Message:       message,
		Field:         field,
		Code:          code,
		RejectedValue: rejectedValue,
	}
}

// Error is raised by business logic when input fails domain validation.
// It carries the property failures in the order they were detected.
type Error struct {
	failures []PropertyFailure
}

// New creates a validation error carrying the given failures.
func New(failures ...PropertyFailure) *Error {
	return &Error{failures: failures}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.failures) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.failures))
	for _, f := range e.failures {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(msgs, "; ")
}

// Failures returns the carried property failures in original order.
func (e *Error) Failures() []PropertyFailure {
	return e.failures
}

// Is checks if the error chain contains a validation failure.
func Is(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}

// As extracts a validation failure from the error chain if present.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
