package descriptor

import "runtime"

// InterfaceOption configures a raw interface declared at runtime.
type InterfaceOption func(*RawInterface)

// MethodOption configures a raw method declared at runtime.
type MethodOption func(*RawMethod)

// NewInterface declares an interface without the code generator and runs it
// through the same validation as generated bindings:
//
//	desc, err := descriptor.NewInterface("HttpBin",
//		descriptor.WithMethod("Get",
//			descriptor.Request("GET", "/get/{value}"),
//			descriptor.Context(),
//			descriptor.Param("value"),
//			descriptor.Returns(descriptor.ShapeText),
//		),
//	)
func NewInterface(name string, opts ...InterfaceOption) (*InterfaceDescriptor, error) {
	raw := RawInterface{Name: name, Location: callerLocation(2)}
	for _, opt := range opts {
		opt(&raw)
	}
	return ParseInterface(raw)
}

// Local requests the thread-confined async kind.
func Local() InterfaceOption {
	return func(r *RawInterface) {
		r.Local = true
	}
}

// WithMethod appends a method to the interface.
func WithMethod(name string, opts ...MethodOption) InterfaceOption {
	loc := callerLocation(2)
	return func(r *RawInterface) {
		m := RawMethod{Name: name, Receiver: ReceiverInterface, Location: loc}
		for _, opt := range opts {
			opt(&m)
		}
		if m.Results == nil {
			m.Results = []TypeRef{{Kind: TypeError, Expr: "error"}}
		}
		r.Methods = append(r.Methods, m)
	}
}

// Request sets the verb and path template of the method.
func Request(verb, path string) MethodOption {
	return func(m *RawMethod) {
		m.Annotations = append(m.Annotations, RawAnnotation{
			Kind:     AnnotationRequest,
			Args:     map[string]string{"method": verb, "path": path},
			Keys:     []string{"method", "path"},
			Location: m.Location,
		})
	}
}

// Header appends a header template to the method.
func Header(name, value string) MethodOption {
	return func(m *RawMethod) {
		m.Annotations = append(m.Annotations, RawAnnotation{
			Kind:     AnnotationHeader,
			Args:     map[string]string{"name": name, "value": value},
			Keys:     []string{"name", "value"},
			Location: m.Location,
		})
	}
}

// Context marks the method async by giving it a leading context parameter.
func Context() MethodOption {
	return func(m *RawMethod) {
		ctx := RawParam{Name: "ctx", Type: TypeRef{Kind: TypeContext, Expr: "context.Context"}, Location: m.Location}
		m.Params = append([]RawParam{ctx}, m.Params...)
	}
}

// Param appends a named parameter. The names body, form, json and query
// select the corresponding role.
func Param(name string) MethodOption {
	return func(m *RawMethod) {
		m.Params = append(m.Params, RawParam{Name: name, Type: TypeRef{Kind: TypeOther, Expr: "any"}, Location: m.Location})
	}
}

// Returns declares the decoded result of the method.
func Returns(kind ShapeKind) MethodOption {
	return func(m *RawMethod) {
		m.Results = resultsFor(kind, false)
	}
}

// ReturnsResponse declares a result wrapped with its status and headers.
func ReturnsResponse(kind ShapeKind) MethodOption {
	return func(m *RawMethod) {
		m.Results = resultsFor(kind, true)
	}
}

func resultsFor(kind ShapeKind, wrapped bool) []TypeRef {
	errRef := TypeRef{Kind: TypeError, Expr: "error"}
	var ref TypeRef
	switch kind {
	case ShapeUnit:
		if !wrapped {
			return []TypeRef{errRef}
		}
		ref = TypeRef{Kind: TypeUnit, Expr: "pretend.Unit"}
	case ShapeBytes:
		ref = TypeRef{Kind: TypeBytes, Expr: "[]byte"}
	case ShapeText:
		ref = TypeRef{Kind: TypeString, Expr: "string"}
	case ShapeJSONResult:
		ref = TypeRef{Kind: TypeJSONResult, Expr: "pretend.JsonResult[any, any]"}
	default:
		ref = TypeRef{Kind: TypeOther, Expr: "any"}
	}
	if wrapped {
		inner := ref
		ref = TypeRef{Kind: TypeResponse, Expr: "pretend.Response[" + inner.Expr + "]", Elem: &inner}
	}
	return []TypeRef{ref, errRef}
}

func callerLocation(skip int) Location {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{}
	}
	return Location{File: file, Line: line}
}
