package hook

import (
	"fmt"
)

// Required job fields, in validation order.
const (
	FieldInput  = "input"
	FieldOutput = "output"
	FieldVars   = "vars"
)

// ConfigError reports a job that is missing a required field.
type ConfigError struct {
	// Field is the first missing field.
	Field string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("Invalid template config, need %s", e.Field)
}

func newConfigError(field string) *ConfigError {
	return &ConfigError{Field: field}
}

// RenderError wraps a failure to render or write a job. The message is the
// input path followed by the underlying message.
type RenderError struct {
	// Input is the template path of the failing job.
	Input string
	// Cause is the error raised by the reader, engine or writer.
	Cause error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Input, e.Cause.Error())
}

// Unwrap returns the underlying cause error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a descriptor whose shape cannot be decoded into a Job.
// Nil elements are rejected when hooks are built. Any other decode failure
// is carried on the job and returned when its hook runs.
type DecodeError struct {
	// Index is the position of the descriptor in the configured sequence.
	Index int
	// Cause is the decoding error.
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid template config at index %d: %v", e.Index, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
