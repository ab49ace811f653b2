package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/pretend/internal/models"
	"github.com/toyz/pretend/internal/parser"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	warnLabel  = color.New(color.FgYellow, color.Bold)
	arrowLabel = color.New(color.FgBlue, color.Bold)
	noteLabel  = color.New(color.FgCyan)
	helpLabel  = color.New(color.FgGreen)
)

// hints are printed after diagnostics of the matching code
var hints = map[descriptor.Code]string{
	descriptor.CodeMissingRequest:                 "add //pretend::request METHOD /path above the method",
	descriptor.CodeTooManyRequests:                "keep a single //pretend::request annotation per method",
	descriptor.CodeMissingTemplateArgument:        "add a parameter with the placeholder's name, or fix the placeholder",
	descriptor.CodeTooManyBodies:                  "declare only one of the body, form and json parameters",
	descriptor.CodeInconsistentAsync:              "give every method a leading context.Context parameter, or none of them",
	descriptor.CodeNoMethod:                       "declare at least one annotated method",
	descriptor.CodeUnsupportedGenerics:            "remove the type parameters from the client interface",
	descriptor.CodeUnsupportedReceiver:            "annotate methods of an interface marked //pretend::client",
	descriptor.CodeUnnamedParameter:               "name every parameter; names select body roles and fill placeholders",
	descriptor.CodeUnsupportedReturn:              "return error, or a string, []byte, struct, pretend.Response or pretend.JsonResult together with error",
	descriptor.CodeUnsupportedModifierForBlocking: "-Local only applies to clients whose methods take a context.Context",
}

// DiagnosticReporter prints definition-time diagnostics and CLI failures
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     color.Error,
	}
}

// SetOutput redirects the reporter
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	warnLabel.Fprint(r.out, "warning")
	fmt.Fprintf(r.out, ": %s\n", message)
}

// ReportDiagnostic prints one diagnostic with its notes
func (r *DiagnosticReporter) ReportDiagnostic(d *descriptor.Diagnostic) {
	errorLabel.Fprintf(r.out, "error[%s]", d.Code)
	fmt.Fprintf(r.out, ": %s\n", d.Message)
	arrowLabel.Fprint(r.out, "  --> ")
	fmt.Fprintf(r.out, "%s\n", d.Location)

	for _, note := range d.Notes {
		noteLabel.Fprint(r.out, "   = note: ")
		fmt.Fprintf(r.out, "%s (%s)\n", note.Message, note.Location)
	}
	if hint, ok := hints[d.Code]; ok {
		helpLabel.Fprint(r.out, "   = help: ")
		fmt.Fprintf(r.out, "%s\n", hint)
	}
	fmt.Fprintln(r.out)
}

// ReportDefinitionErrors prints every diagnostic of every invalid interface
func (r *DiagnosticReporter) ReportDefinitionErrors(errs *parser.DefinitionErrors) {
	for _, err := range errs.Errors {
		for _, d := range err.Diagnostics {
			r.ReportDiagnostic(d)
		}
	}

	count := len(errs.Diagnostics())
	plural := "s"
	if count == 1 {
		plural = ""
	}
	errorLabel.Fprint(r.out, "error")
	fmt.Fprintf(r.out, ": %d problem%s in %d client definition(s)\n", count, plural, len(errs.Errors))
}

// ReportError prints err with as much structure as it carries
func (r *DiagnosticReporter) ReportError(err error) {
	var defErrs *parser.DefinitionErrors
	if errors.As(err, &defErrs) {
		r.ReportDefinitionErrors(defErrs)
		return
	}

	var genErr *models.GeneratorError
	if errors.As(err, &genErr) {
		r.reportGeneratorError(genErr)
		return
	}

	errorLabel.Fprint(r.out, "error")
	fmt.Fprintf(r.out, ": %s\n", err)
}

func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	errorLabel.Fprintf(r.out, "error[%s]", genErr.Type)
	fmt.Fprintf(r.out, ": %s\n", genErr.Message)

	if genErr.File != "" {
		loc := genErr.File
		if genErr.Line > 0 {
			loc = fmt.Sprintf("%s:%d", genErr.File, genErr.Line)
		}
		arrowLabel.Fprint(r.out, "  --> ")
		fmt.Fprintf(r.out, "%s\n", loc)
	}

	if genErr.Cause != nil {
		cause := genErr.Cause.Error()
		if !r.verbose {
			cause, _, _ = strings.Cut(cause, "\n")
		}
		noteLabel.Fprint(r.out, "   = cause: ")
		fmt.Fprintf(r.out, "%s\n", cause)
	}
	for _, s := range genErr.Suggestions {
		helpLabel.Fprint(r.out, "   = help: ")
		fmt.Fprintf(r.out, "%s\n", s)
	}
}
