package models

import (
	"fmt"
	"strings"
)

// GeneratorError represents an error that occurred during code generation
type GeneratorError struct {
	Type        ErrorType // type of error
	File        string    // file where error occurred
	Line        int       // line number where error occurred
	Message     string    // error message
	Suggestions []string  // hints printed after the message
	Cause       error     // underlying error cause
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	var msg string
	switch {
	case e.File != "" && e.Line > 0:
		msg = fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	case e.File != "":
		msg = fmt.Sprintf("%s: %s", e.File, e.Message)
	default:
		msg = e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if len(e.Suggestions) > 0 {
		msg += "\n  " + strings.Join(e.Suggestions, "\n  ")
	}
	return msg
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}
