package annotations

import (
	"fmt"
	"strings"
)

// AnnotationError defines the interface for annotation-related errors
type AnnotationError interface {
	error
	Location() SourceLocation
	Suggestion() string
	Code() ErrorCode
}

// ErrorCode represents different types of annotation errors
type ErrorCode int

const (
	SyntaxErrorCode ErrorCode = iota
	SchemaErrorCode
	RegistrationErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case SchemaErrorCode:
		return "SchemaError"
	case RegistrationErrorCode:
		return "RegistrationError"
	default:
		return "UnknownError"
	}
}

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SyntaxError) Error() string {
	return withHint(fmt.Sprintf("%s:%d:%d: syntax error: %s", e.Loc.File, e.Loc.Line, e.Loc.Column, e.Msg), e.Hint)
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }
func (e *SyntaxError) Code() ErrorCode          { return SyntaxErrorCode }

// SchemaError represents an annotation that does not fit its schema
type SchemaError struct {
	Msg  string
	Loc  SourceLocation
	Hint string
}

func (e *SchemaError) Error() string {
	return withHint(fmt.Sprintf("%s:%d:%d: schema error: %s", e.Loc.File, e.Loc.Line, e.Loc.Column, e.Msg), e.Hint)
}

func (e *SchemaError) Location() SourceLocation { return e.Loc }
func (e *SchemaError) Suggestion() string       { return e.Hint }
func (e *SchemaError) Code() ErrorCode          { return SchemaErrorCode }

// RegistrationError represents an error during annotation type registration
type RegistrationError struct {
	Msg  string
	Hint string
}

func (e *RegistrationError) Error() string {
	return withHint("registration error: "+e.Msg, e.Hint)
}

func (e *RegistrationError) Location() SourceLocation { return SourceLocation{} }
func (e *RegistrationError) Suggestion() string       { return e.Hint }
func (e *RegistrationError) Code() ErrorCode          { return RegistrationErrorCode }

func withHint(msg, hint string) string {
	if hint == "" {
		return msg
	}
	return msg + ". " + hint
}

// MultipleAnnotationErrors represents multiple annotation errors collected together
type MultipleAnnotationErrors struct {
	Errors []AnnotationError
}

func (e *MultipleAnnotationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d annotation errors:", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (e *MultipleAnnotationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends an error
func (e *MultipleAnnotationErrors) Add(err AnnotationError) {
	e.Errors = append(e.Errors, err)
}

// GetByType returns all errors of a specific type
func (e *MultipleAnnotationErrors) GetByType(code ErrorCode) []AnnotationError {
	var out []AnnotationError
	for _, err := range e.Errors {
		if err.Code() == code {
			out = append(out, err)
		}
	}
	return out
}

// HasType checks if there are any errors of a specific type
func (e *MultipleAnnotationErrors) HasType(code ErrorCode) bool {
	return len(e.GetByType(code)) > 0
}

// ErrOrNil returns nil when nothing was collected
func (e *MultipleAnnotationErrors) ErrOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NewSyntaxErrorWithContext creates a syntax error with a suggestion derived from the message
func NewSyntaxErrorWithContext(msg string, loc SourceLocation, context string) *SyntaxError {
	return &SyntaxError{
		Msg:  msg,
		Loc:  loc,
		Hint: generateSyntaxSuggestion(msg, context),
	}
}

// NewSchemaErrorWithContext creates a schema error pointing at the annotation's examples
func NewSchemaErrorWithContext(msg string, loc SourceLocation, schema AnnotationSchema) *SchemaError {
	return &SchemaError{
		Msg:  msg,
		Loc:  loc,
		Hint: generateSchemaSuggestion(schema),
	}
}

func generateSyntaxSuggestion(msg, context string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unknown annotation type"):
		return "Use one of: //pretend::client, //pretend::request, //pretend::header"
	case strings.Contains(lower, "missing annotation type"):
		return "Write the annotation as //pretend::<type> followed by its arguments"
	case strings.Contains(lower, "unterminated") || strings.Contains(context, `"`) && strings.Count(context, `"`)%2 == 1:
		return "Close every quoted value with a matching \""
	case strings.Contains(lower, "prefix"):
		return "Annotations must start with //pretend::"
	default:
		return "Check the annotation syntax"
	}
}

func generateSchemaSuggestion(schema AnnotationSchema) string {
	if len(schema.Examples) == 0 {
		return ""
	}
	return "Example: " + schema.Examples[0]
}

// Message returns the error text without its source position
func Message(err error) string {
	switch e := err.(type) {
	case *SyntaxError:
		return withHint(e.Msg, e.Hint)
	case *SchemaError:
		return withHint(e.Msg, e.Hint)
	default:
		return err.Error()
	}
}
