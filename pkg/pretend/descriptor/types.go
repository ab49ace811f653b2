// Package descriptor holds the validated description of a pretend client
// interface and the parser that produces it from raw, source-level input.
package descriptor

import "fmt"

// ClientKind is the concurrency flavor shared by every method of an interface.
type ClientKind int

const (
	// Blocking clients perform synchronous calls on the caller's goroutine.
	Blocking ClientKind = iota
	// SharedAsync clients are context-aware and safe for concurrent use.
	SharedAsync
	// ThreadConfinedAsync clients are context-aware but serialize every call
	// on a single goroutine owned by the binding.
	ThreadConfinedAsync
)

// String returns the string representation of the client kind
func (k ClientKind) String() string {
	switch k {
	case Blocking:
		return "Blocking"
	case SharedAsync:
		return "SharedAsync"
	case ThreadConfinedAsync:
		return "ThreadConfinedAsync"
	default:
		return fmt.Sprintf("ClientKind(%d)", int(k))
	}
}

// IsAsync reports whether calls of this kind take a context.
func (k ClientKind) IsAsync() bool {
	return k != Blocking
}

// BodyKind selects how the body parameter of a method is encoded.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyRaw
	BodyForm
	BodyJSON
)

// String returns the string representation of the body kind
func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "None"
	case BodyRaw:
		return "Raw"
	case BodyForm:
		return "Form"
	case BodyJSON:
		return "Json"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// BodyRole binds a body kind to the parameter that carries the payload.
type BodyRole struct {
	Kind  BodyKind
	Param string
}

// ShapeKind is the decoding strategy for a response.
type ShapeKind int

const (
	ShapeUnit ShapeKind = iota
	ShapeBytes
	ShapeText
	ShapeJSON
	ShapeJSONResult
)

// String returns the string representation of the shape kind
func (k ShapeKind) String() string {
	switch k {
	case ShapeUnit:
		return "Unit"
	case ShapeBytes:
		return "Bytes"
	case ShapeText:
		return "Text"
	case ShapeJSON:
		return "Json"
	case ShapeJSONResult:
		return "JsonResult"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ResponseShape describes how a raw response becomes the declared result.
// Wrapped shapes never short-circuit on the status code and expose the
// status and headers alongside the decoded body.
type ResponseShape struct {
	Kind    ShapeKind
	Wrapped bool
}

func (s ResponseShape) String() string {
	if s.Wrapped {
		return "Response[" + s.Kind.String() + "]"
	}
	return s.Kind.String()
}

// ChecksStatus reports whether a non-2xx status fails the call before decoding.
func (s ResponseShape) ChecksStatus() bool {
	return !s.Wrapped && s.Kind != ShapeJSONResult
}

// HeaderTemplate is a header whose name and value may contain placeholders.
type HeaderTemplate struct {
	Name  string
	Value string
}

// Location points at a position in the declaring source.
type Location struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return "<unknown>"
	}
	if l.Column == 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// MethodDescriptor is the validated description of one client method.
type MethodDescriptor struct {
	Name     string
	Verb     string
	Path     string
	Headers  []HeaderTemplate
	Body     BodyRole
	Query    string
	Async    bool
	Shape    ResponseShape
	Params   []string
	Location Location
}

// HasQuery reports whether one parameter is serialized as the query string.
func (m *MethodDescriptor) HasQuery() bool {
	return m.Query != ""
}

// InterfaceDescriptor is the validated description of a client interface.
// It is only ever produced whole; a parse failure yields no descriptor.
type InterfaceDescriptor struct {
	Name     string
	Kind     ClientKind
	Methods  []*MethodDescriptor
	Location Location
}

// Method looks up a method by name.
func (d *InterfaceDescriptor) Method(name string) (*MethodDescriptor, int, bool) {
	for i, m := range d.Methods {
		if m.Name == name {
			return m, i, true
		}
	}
	return nil, -1, false
}
