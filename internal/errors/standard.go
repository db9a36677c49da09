// Package errors provides standardized error values for Prism.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	// CategoryMisuse marks programming errors: invalid registrations and
	// impossible casts. These are raised with panic.
	CategoryMisuse ErrorCategory = "MISUSE"
	// CategoryConfiguration marks transform data the caller did not supply.
	CategoryConfiguration ErrorCategory = "CONFIGURATION"
	// CategoryInput marks configuration that references bindings or symbols
	// absent from the program.
	CategoryInput      ErrorCategory = "INPUT"
	CategoryValidation ErrorCategory = "VALIDATION"
	CategorySystem     ErrorCategory = "SYSTEM"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// DiagnosticMessage returns the message without the category and caller
// decorations, as it should appear in a diagnostic.
func (e *StandardError) DiagnosticMessage() string {
	return e.Message
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return newStandardError(2, category, code, message, context)
}

func newStandardError(skip int, category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(skip)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Misuse builds the value passed to panic for programming errors.
func Misuse(code, message string, context map[string]interface{}) *StandardError {
	return newStandardError(2, CategoryMisuse, code, message, context)
}

// MissingTransformData reports that a transform ran without its required
// configuration payload.
func MissingTransformData(transform string) *StandardError {
	return newStandardError(2, CategoryConfiguration, "MISSING_TRANSFORM_DATA",
		"missing transform data for "+transform,
		map[string]interface{}{"transform": transform})
}

// InvalidInput reports configuration that does not match the program.
func InvalidInput(code, message string, context map[string]interface{}) *StandardError {
	return newStandardError(2, CategoryInput, code, message, context)
}

// IsMisuse reports whether a recovered panic value is a misuse error with
// the given code. An empty code matches any misuse error.
func IsMisuse(v interface{}, code string) bool {
	se, ok := v.(*StandardError)
	if !ok || se.Category != CategoryMisuse {
		return false
	}

	return code == "" || se.Code == code
}

// DiagnosticText returns the text a diagnostic should carry for err: the
// bare message of a wrapped *StandardError, or err.Error() otherwise.
func DiagnosticText(err error) string {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.DiagnosticMessage()
	}
	return err.Error()
}

// Is reports whether err carries a *StandardError with the given category
// and, when code is not empty, the given code.
func Is(err error, category ErrorCategory, code string) bool {
	var se *StandardError
	if !stderrors.As(err, &se) {
		return false
	}
	return se.Category == category && (code == "" || se.Code == code)
}
