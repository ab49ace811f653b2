package descriptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(line int) Location {
	return Location{File: "client.go", Line: line, Column: 2}
}

func request(line int, verb, path string) RawAnnotation {
	return RawAnnotation{
		Kind:     AnnotationRequest,
		Args:     map[string]string{"method": verb, "path": path},
		Keys:     []string{"method", "path"},
		Location: loc(line),
	}
}

func header(line int, name, value string) RawAnnotation {
	return RawAnnotation{
		Kind:     AnnotationHeader,
		Args:     map[string]string{"name": name, "value": value},
		Keys:     []string{"name", "value"},
		Location: loc(line),
	}
}

var (
	errorRef  = TypeRef{Kind: TypeError, Expr: "error"}
	stringRef = TypeRef{Kind: TypeString, Expr: "string"}
	ctxParam  = RawParam{Name: "ctx", Type: TypeRef{Kind: TypeContext, Expr: "context.Context"}}
)

func textMethod(name string, line int, async bool) RawMethod {
	m := RawMethod{
		Name:        name,
		Annotations: []RawAnnotation{request(line-1, "GET", "/get")},
		Results:     []TypeRef{stringRef, errorRef},
		Location:    loc(line),
	}
	if async {
		m.Params = []RawParam{ctxParam}
	}
	return m
}

func TestParseMethod(t *testing.T) {
	raw := RawMethod{
		Name: "Get",
		Annotations: []RawAnnotation{
			request(1, "GET", "/get/{value}"),
			header(2, "X-Test", "{value}"),
			header(3, "X-Test", "second"),
		},
		Params: []RawParam{
			ctxParam,
			{Name: "value", Type: stringRef},
			{Name: "query", Type: TypeRef{Expr: "Filter"}},
			{Name: "json", Type: TypeRef{Expr: "Payload"}},
		},
		Results:  []TypeRef{{Kind: TypeOther, Expr: "Payload"}, errorRef},
		Location: loc(4),
	}

	m, diags := ParseMethod(raw)
	require.Empty(t, diags)
	require.NotNil(t, m)

	assert.Equal(t, "GET", m.Verb)
	assert.Equal(t, "/get/{value}", m.Path)
	assert.Equal(t, []HeaderTemplate{{"X-Test", "{value}"}, {"X-Test", "second"}}, m.Headers)
	assert.Equal(t, BodyRole{Kind: BodyJSON, Param: "json"}, m.Body)
	assert.True(t, m.HasQuery())
	assert.True(t, m.Async)
	assert.Equal(t, ResponseShape{Kind: ShapeJSON}, m.Shape)
	assert.Equal(t, []string{"value", "query", "json"}, m.Params)
}

func TestParseMethodBodyRoles(t *testing.T) {
	tests := []struct {
		param string
		want  BodyRole
	}{
		{"body", BodyRole{Kind: BodyRaw, Param: "body"}},
		{"form", BodyRole{Kind: BodyForm, Param: "form"}},
		{"json", BodyRole{Kind: BodyJSON, Param: "json"}},
		{"payload", BodyRole{Kind: BodyNone}},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			raw := textMethod("Post", 2, false)
			raw.Params = []RawParam{{Name: tt.param, Type: TypeRef{Expr: "Data"}}}

			m, diags := ParseMethod(raw)
			require.Empty(t, diags)
			assert.Equal(t, tt.want, m.Body)
		})
	}
}

func TestParseMethodShapes(t *testing.T) {
	tests := []struct {
		name    string
		results []TypeRef
		want    ResponseShape
	}{
		{"error only", []TypeRef{errorRef}, ResponseShape{Kind: ShapeUnit}},
		{"unit", []TypeRef{{Kind: TypeUnit, Expr: "pretend.Unit"}, errorRef}, ResponseShape{Kind: ShapeUnit}},
		{"bytes", []TypeRef{{Kind: TypeBytes, Expr: "[]byte"}, errorRef}, ResponseShape{Kind: ShapeBytes}},
		{"text", []TypeRef{stringRef, errorRef}, ResponseShape{Kind: ShapeText}},
		{"json", []TypeRef{{Kind: TypeOther, Expr: "User"}, errorRef}, ResponseShape{Kind: ShapeJSON}},
		{"json result", []TypeRef{{Kind: TypeJSONResult, Expr: "pretend.JsonResult[User, Problem]"}, errorRef}, ResponseShape{Kind: ShapeJSONResult}},
		{
			"wrapped text",
			[]TypeRef{{Kind: TypeResponse, Expr: "pretend.Response[string]", Elem: &stringRef}, errorRef},
			ResponseShape{Kind: ShapeText, Wrapped: true},
		},
		{
			"wrapped json",
			[]TypeRef{{Kind: TypeResponse, Expr: "pretend.Response[User]", Elem: &TypeRef{Expr: "User"}}, errorRef},
			ResponseShape{Kind: ShapeJSON, Wrapped: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := textMethod("Get", 2, false)
			raw.Results = tt.results

			m, diags := ParseMethod(raw)
			require.Empty(t, diags)
			assert.Equal(t, tt.want, m.Shape)
		})
	}
}

func TestParseMethodDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawMethod)
		code   Code
		notes  int
	}{
		{
			name:   "missing request",
			mutate: func(m *RawMethod) { m.Annotations = nil },
			code:   CodeMissingRequest,
		},
		{
			name: "too many requests",
			mutate: func(m *RawMethod) {
				m.Annotations = append(m.Annotations, request(5, "POST", "/post"))
			},
			code:  CodeTooManyRequests,
			notes: 2,
		},
		{
			name: "request without path",
			mutate: func(m *RawMethod) {
				m.Annotations = []RawAnnotation{{Kind: AnnotationRequest, Args: map[string]string{"method": "GET"}}}
			},
			code: CodeInvalidRequest,
		},
		{
			name: "request with extra key",
			mutate: func(m *RawMethod) {
				a := request(1, "GET", "/get")
				a.Args["other"] = "x"
				m.Annotations = []RawAnnotation{a}
			},
			code: CodeInvalidRequest,
		},
		{
			name:   "unknown verb",
			mutate: func(m *RawMethod) { m.Annotations = []RawAnnotation{request(1, "FETCH", "/get")} },
			code:   CodeInvalidRequest,
		},
		{
			name: "header without value",
			mutate: func(m *RawMethod) {
				m.Annotations = append(m.Annotations, RawAnnotation{Kind: AnnotationHeader, Args: map[string]string{"name": "X"}})
			},
			code: CodeInvalidHeader,
		},
		{
			name: "unknown path placeholder",
			mutate: func(m *RawMethod) {
				m.Annotations = []RawAnnotation{request(1, "GET", "/users/{id}")}
			},
			code: CodeMissingTemplateArgument,
		},
		{
			name: "unknown header placeholder",
			mutate: func(m *RawMethod) {
				m.Annotations = append(m.Annotations, header(3, "X-Trace", "{trace}"))
			},
			code: CodeMissingTemplateArgument,
		},
		{
			name: "too many bodies",
			mutate: func(m *RawMethod) {
				m.Params = []RawParam{{Name: "body", Location: loc(7)}, {Name: "json", Location: loc(8)}}
			},
			code:  CodeTooManyBodies,
			notes: 2,
		},
		{
			name:   "generic method",
			mutate: func(m *RawMethod) { m.TypeParams = []string{"T any"} },
			code:   CodeUnsupportedGenerics,
		},
		{
			name:   "pointer receiver",
			mutate: func(m *RawMethod) { m.Receiver = ReceiverPointer },
			code:   CodeUnsupportedReceiver,
		},
		{
			name:   "value receiver",
			mutate: func(m *RawMethod) { m.Receiver = ReceiverValue },
			code:   CodeUnsupportedReceiver,
		},
		{
			name:   "no error result",
			mutate: func(m *RawMethod) { m.Results = []TypeRef{stringRef} },
			code:   CodeUnsupportedReturn,
		},
		{
			name: "pointer response",
			mutate: func(m *RawMethod) {
				m.Results = []TypeRef{{Kind: TypeResponse, Pointer: true, Expr: "*pretend.Response[string]", Elem: &stringRef}, errorRef}
			},
			code: CodeUnsupportedReturn,
		},
		{
			name:   "unnamed parameter",
			mutate: func(m *RawMethod) { m.Params = []RawParam{{Type: stringRef}} },
			code:   CodeUnnamedParameter,
		},
		{
			name: "malformed annotation",
			mutate: func(m *RawMethod) {
				m.Annotations = append(m.Annotations, RawAnnotation{Kind: AnnotationInvalid, Problem: "unknown annotation pretend::reqest"})
			},
			code: CodeInvalidAnnotation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := textMethod("Get", 2, false)
			tt.mutate(&raw)

			m, diags := ParseMethod(raw)
			assert.Nil(t, m)
			require.True(t, diags.Has(tt.code), "expected %s in %v", tt.code, diags)
			assert.Len(t, diags.ByCode(tt.code)[0].Notes, tt.notes)
		})
	}
}

func TestParseMethodReportsEveryHeader(t *testing.T) {
	raw := textMethod("Get", 2, false)
	raw.Annotations = append(raw.Annotations,
		RawAnnotation{Kind: AnnotationHeader, Args: map[string]string{"name": "A"}},
		header(3, "X-Ok", "1"),
		RawAnnotation{Kind: AnnotationHeader, Args: map[string]string{"value": "B"}},
	)

	_, diags := ParseMethod(raw)
	assert.Len(t, diags.ByCode(CodeInvalidHeader), 2)
}

func TestParseMethodPlaceholders(t *testing.T) {
	raw := textMethod("Get", 4, true)
	raw.Annotations = []RawAnnotation{
		request(1, "GET", "/users/{id}/{ctx}"),
		header(2, "X-{kind}", "{trace}"),
		header(3, "X-Id", "{id}"),
	}
	raw.Params = append(raw.Params, RawParam{Name: "trace", Type: stringRef})

	m, diags := ParseMethod(raw)
	assert.Nil(t, m)

	missing := diags.ByCode(CodeMissingTemplateArgument)
	require.Len(t, missing, 4)
	assert.Equal(t, loc(1), missing[0].Location)
	assert.Contains(t, missing[0].Message, "{id}")
	assert.Contains(t, missing[1].Message, "{ctx}")
	assert.Equal(t, loc(2), missing[2].Location)
	assert.Contains(t, missing[2].Message, "{kind}")
	assert.Equal(t, loc(3), missing[3].Location)

	raw.Params = append(raw.Params, RawParam{Name: "id", Type: stringRef}, RawParam{Name: "kind", Type: stringRef})
	raw.Annotations[0] = request(1, "GET", "/users/{id}/{}")
	m, diags = ParseMethod(raw)
	require.Empty(t, diags)
	assert.Equal(t, "/users/{id}/{}", m.Path)
}

func TestNewInterfaceRejectsUnknownPlaceholders(t *testing.T) {
	_, err := NewInterface("Users",
		WithMethod("Get",
			Request("GET", "/users/{id}"),
			Header("X-Trace", "{trace}"),
			Context(),
			Returns(ShapeText),
		),
	)
	require.Error(t, err)

	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Len(t, derr.Diagnostics.ByCode(CodeMissingTemplateArgument), 2)
}

func TestResolveClientKind(t *testing.T) {
	async := &MethodDescriptor{Name: "A", Async: true, Location: loc(3)}
	sync := &MethodDescriptor{Name: "B", Async: false, Location: loc(6)}

	tests := []struct {
		name    string
		methods []*MethodDescriptor
		local   bool
		want    ClientKind
		code    Code
	}{
		{"all sync", []*MethodDescriptor{sync, sync}, false, Blocking, ""},
		{"all async", []*MethodDescriptor{async, async}, false, SharedAsync, ""},
		{"all async local", []*MethodDescriptor{async}, true, ThreadConfinedAsync, ""},
		{"sync local", []*MethodDescriptor{sync}, true, Blocking, CodeUnsupportedModifierForBlocking},
		{"mixed", []*MethodDescriptor{async, sync}, false, Blocking, CodeInconsistentAsync},
		{"empty", nil, false, Blocking, CodeNoMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, d := ResolveClientKind(loc(1), tt.methods, tt.local)
			if tt.code == "" {
				assert.Nil(t, d)
				assert.Equal(t, tt.want, kind)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.code, d.Code)
		})
	}
}

func TestResolveClientKindInconsistentNotes(t *testing.T) {
	methods := []*MethodDescriptor{
		{Name: "A", Async: true, Location: loc(3)},
		{Name: "B", Async: false, Location: loc(6)},
	}

	_, d := ResolveClientKind(loc(1), methods, false)
	require.NotNil(t, d)
	require.Len(t, d.Notes, 2)
	assert.Equal(t, "async method defined here", d.Notes[0].Message)
	assert.Equal(t, loc(3), d.Notes[0].Location)
	assert.Equal(t, "non-async method defined here", d.Notes[1].Message)
	assert.Equal(t, loc(6), d.Notes[1].Location)
}

func TestParseInterface(t *testing.T) {
	raw := RawInterface{
		Name:     "HttpBin",
		Methods:  []RawMethod{textMethod("Get", 3, true), textMethod("Post", 6, true)},
		Location: loc(1),
	}

	desc, err := ParseInterface(raw)
	require.NoError(t, err)
	assert.Equal(t, "HttpBin", desc.Name)
	assert.Equal(t, SharedAsync, desc.Kind)
	require.Len(t, desc.Methods, 2)

	m, idx, ok := desc.Method("Post")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Post", m.Name)
}

func TestParseInterfaceAggregatesDiagnostics(t *testing.T) {
	broken := textMethod("Broken", 6, false)
	broken.Annotations = nil

	raw := RawInterface{
		Name:       "HttpBin",
		TypeParams: []string{"T any"},
		Methods:    []RawMethod{textMethod("Get", 3, true), broken},
		Items:      []RawItem{{Description: "embedded io.Closer", Location: loc(9)}},
		Location:   loc(1),
	}

	desc, err := ParseInterface(raw)
	assert.Nil(t, desc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDescriptor))

	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "HttpBin", derr.Interface)
	assert.True(t, derr.Diagnostics.Has(CodeUnsupportedGenerics))
	assert.True(t, derr.Diagnostics.Has(CodeUnsupportedItem))
	assert.True(t, derr.Diagnostics.Has(CodeMissingRequest))
	assert.True(t, derr.Diagnostics.Has(CodeInconsistentAsync))

	var diag *Diagnostic
	require.True(t, errors.As(err, &diag))
	assert.Contains(t, err.Error(), "client.go:1:2")
}

func TestParseInterfaceWithoutMethods(t *testing.T) {
	_, err := ParseInterface(RawInterface{Name: "Empty", Location: loc(1)})
	require.Error(t, err)

	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.True(t, derr.Diagnostics.Has(CodeNoMethod))
}

func TestNewInterface(t *testing.T) {
	desc, err := NewInterface("HttpBin",
		Local(),
		WithMethod("Get",
			Request("GET", "/get/{value}"),
			Header("X-Test", "{value}"),
			Param("value"),
			Context(),
			Returns(ShapeText),
		),
		WithMethod("Status",
			Request("GET", "/status/{code}/json"),
			Context(),
			Param("code"),
			ReturnsResponse(ShapeJSONResult),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, ThreadConfinedAsync, desc.Kind)
	assert.NotEmpty(t, desc.Location.File)
	assert.Equal(t, []string{"value"}, desc.Methods[0].Params)
	assert.Equal(t, ResponseShape{Kind: ShapeJSONResult, Wrapped: true}, desc.Methods[1].Shape)
	assert.Equal(t, "Response[JsonResult]", desc.Methods[1].Shape.String())
}

func TestNewInterfaceUnitDefault(t *testing.T) {
	desc, err := NewInterface("Pinger", WithMethod("Ping", Request("HEAD", "/")))
	require.NoError(t, err)
	assert.Equal(t, Blocking, desc.Kind)
	assert.Equal(t, ResponseShape{Kind: ShapeUnit}, desc.Methods[0].Shape)
}
