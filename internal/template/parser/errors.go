package parser

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// ParseErrorType represents the type of parsing error.
type ParseErrorType int

const (
	// InvalidSyntax indicates a template whose tags do not form a valid
	// program, e.g. an unclosed {{? }} block or a malformed expression.
	InvalidSyntax ParseErrorType = iota
	// InvalidDefine indicates a {{## }} define or {{# }} use block that
	// failed to evaluate.
	InvalidDefine
)

// ParseError represents a template parsing error with detailed context.
type ParseError struct {
	// Type is the error type.
	Type ParseErrorType
	// Message is the error message.
	Message string
	// Directive is the problematic tag text, when known.
	Directive string
	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Directive != "" {
		return fmt.Sprintf("%s (directive: %s)", e.Message, e.Directive)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// syntaxError converts a compile failure of the generated program.
func syntaxError(err error) *ParseError {
	msg := err.Error()
	var se *goja.CompilerSyntaxError
	if errors.As(err, &se) {
		msg = se.Message
	}
	return &ParseError{Type: InvalidSyntax, Message: "invalid template: " + msg, Cause: err}
}

// EvalErrorType classifies errors raised while executing a template.
type EvalErrorType int

const (
	// OtherError is any thrown value that is not one of the classes below.
	OtherError EvalErrorType = iota
	// ReferenceError is raised for identifiers that are not in scope.
	ReferenceError
	// TypeError is raised for property reads on undefined or null.
	TypeError
	// RangeError is raised for out-of-range numeric arguments.
	RangeError
	// SyntaxError is raised by code evaluated at run time, e.g. JSON.parse.
	SyntaxError
)

// String returns the conventional name of the error class.
func (t EvalErrorType) String() string {
	switch t {
	case ReferenceError:
		return "ReferenceError"
	case TypeError:
		return "TypeError"
	case RangeError:
		return "RangeError"
	case SyntaxError:
		return "SyntaxError"
	default:
		return "Error"
	}
}

func evalErrorType(name string) EvalErrorType {
	for _, t := range []EvalErrorType{ReferenceError, TypeError, RangeError, SyntaxError} {
		if t.String() == name {
			return t
		}
	}
	return OtherError
}

// EvalError is returned when a compiled template fails during execution.
// Its message carries no class prefix or stack, e.g. "xxx is not defined",
// so callers can wrap it with their own context.
type EvalError struct {
	// Type is the error class.
	Type EvalErrorType
	// Message is the error message.
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return e.Message
}

// evalError strips a thrown JavaScript error down to its message.
// Interrupts caused by context cancellation return the context error.
func evalError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return cause
		}
		return err
	}

	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return err
	}

	val := ex.Value()
	if obj, ok := val.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			name := ""
			if n := obj.Get("name"); n != nil {
				name = n.String()
			}
			return &EvalError{Type: evalErrorType(name), Message: msg.String()}
		}
	}
	if val == nil {
		return err
	}
	return &EvalError{Type: OtherError, Message: val.String()}
}
