package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a definition-time problem.
type Code string

const (
	CodeMissingRequest                 Code = "MissingRequest"
	CodeTooManyRequests                Code = "TooManyRequests"
	CodeInvalidRequest                 Code = "InvalidRequest"
	CodeInvalidHeader                  Code = "InvalidHeader"
	CodeMissingTemplateArgument        Code = "MissingTemplateArgument"
	CodeTooManyBodies                  Code = "TooManyBodies"
	CodeUnsupportedGenerics            Code = "UnsupportedGenerics"
	CodeUnsupportedReceiver            Code = "UnsupportedReceiver"
	CodeUnsupportedReturn              Code = "UnsupportedReturn"
	CodeUnsupportedItem                Code = "UnsupportedItem"
	CodeUnnamedParameter               Code = "UnnamedParameter"
	CodeInvalidAnnotation              Code = "InvalidAnnotation"
	CodeInconsistentAsync              Code = "InconsistentAsync"
	CodeUnsupportedModifierForBlocking Code = "UnsupportedModifierForBlocking"
	CodeNoMethod                       Code = "NoMethod"
)

// ErrInvalidDescriptor matches every *Error produced by the parser.
var ErrInvalidDescriptor = errors.New("failed to generate pretend implementation")

// Note points at a related source position, such as every duplicate of a
// repeated annotation.
type Note struct {
	Message  string
	Location Location
}

// Diagnostic is a single definition-time problem.
type Diagnostic struct {
	Code     Code
	Message  string
	Location Location
	Notes    []Note
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Location, d.Message)
}

func newDiagnostic(code Code, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

func (d *Diagnostic) note(loc Location, message string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message, Location: loc})
	return d
}

// Diagnostics is an ordered collection of problems.
type Diagnostics []*Diagnostic

// Has reports whether any diagnostic carries the code.
func (ds Diagnostics) Has(code Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

// ByCode returns every diagnostic carrying the code.
func (ds Diagnostics) ByCode(code Code) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Error aggregates every diagnostic found while parsing one interface.
type Error struct {
	Interface   string
	Diagnostics Diagnostics
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", ErrInvalidDescriptor)
	if e.Interface != "" {
		fmt.Fprintf(&b, " for %s", e.Interface)
	}
	if len(e.Diagnostics) == 1 {
		fmt.Fprintf(&b, ": %s", e.Diagnostics[0].Error())
		return b.String()
	}
	fmt.Fprintf(&b, " (%d problems):", len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, d.Error())
	}
	return b.String()
}

// Unwrap returns the underlying diagnostics for error inspection
func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d
	}
	return errs
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidDescriptor
}
