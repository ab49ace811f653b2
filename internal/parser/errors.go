package parser

import (
	"fmt"
	"strings"

	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// DefinitionErrors collects every invalid definition found in a package.
// Valid clients of the same package are still returned next to it.
type DefinitionErrors struct {
	Errors []*descriptor.Error
}

func (e *DefinitionErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d invalid definitions:\n%s", len(e.Errors), strings.Join(parts, "\n"))
}

// Unwrap exposes each interface's error to errors.Is and errors.As
func (e *DefinitionErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Diagnostics flattens the diagnostics of every error
func (e *DefinitionErrors) Diagnostics() descriptor.Diagnostics {
	var out descriptor.Diagnostics
	for _, err := range e.Errors {
		out = append(out, err.Diagnostics...)
	}
	return out
}

func (e *DefinitionErrors) add(errs ...error) {
	for _, err := range errs {
		if derr, ok := err.(*descriptor.Error); ok {
			e.Errors = append(e.Errors, derr)
		}
	}
}

func (e *DefinitionErrors) errOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
