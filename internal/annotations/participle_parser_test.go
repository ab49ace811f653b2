package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

var testLoc = SourceLocation{File: "client.go", Line: 12, Column: 2}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name       string
		comment    string
		wantType   AnnotationType
		wantParams map[string]string
		wantKeys   []string
		wantFlags  []string
	}{
		{
			name:       "client",
			comment:    "//pretend::client",
			wantType:   ClientAnnotation,
			wantParams: map[string]string{},
		},
		{
			name:       "local client",
			comment:    "// pretend::client -Local",
			wantType:   ClientAnnotation,
			wantParams: map[string]string{},
			wantFlags:  []string{"Local"},
		},
		{
			name:       "positional request",
			comment:    "//pretend::request GET /users/{id}",
			wantType:   RequestAnnotation,
			wantParams: map[string]string{"method": "GET", "path": "/users/{id}"},
			wantKeys:   []string{"method", "path"},
		},
		{
			name:       "named request",
			comment:    `//pretend::request -path="/a b" -method=POST`,
			wantType:   RequestAnnotation,
			wantParams: map[string]string{"method": "POST", "path": "/a b"},
			wantKeys:   []string{"path", "method"},
		},
		{
			name:       "header value joins remaining words",
			comment:    "//pretend::header Authorization Bearer {token}",
			wantType:   HeaderAnnotation,
			wantParams: map[string]string{"name": "Authorization", "value": "Bearer {token}"},
			wantKeys:   []string{"name", "value"},
		},
		{
			name:       "quoted header value",
			comment:    `//pretend::header X-Quote "say \"hi\""`,
			wantType:   HeaderAnnotation,
			wantParams: map[string]string{"name": "X-Quote", "value": `say "hi"`},
			wantKeys:   []string{"name", "value"},
		},
		{
			name:       "empty named value",
			comment:    "//pretend::header -name=X-Empty -value=",
			wantType:   HeaderAnnotation,
			wantParams: map[string]string{"name": "X-Empty", "value": ""},
			wantKeys:   []string{"name", "value"},
		},
		{
			name:       "extra positional kept",
			comment:    "//pretend::request GET /a /b",
			wantType:   RequestAnnotation,
			wantParams: map[string]string{"method": "GET", "path": "/a", "arg3": "/b"},
			wantKeys:   []string{"method", "path", "arg3"},
		},
		{
			name:       "unknown named kept",
			comment:    "//pretend::request GET /a -body=x",
			wantType:   RequestAnnotation,
			wantParams: map[string]string{"method": "GET", "path": "/a", "body": "x"},
			wantKeys:   []string{"body", "method", "path"},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseAnnotation(tt.comment, testLoc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantParams, got.Parameters)
			assert.Equal(t, tt.wantKeys, got.Keys)
			assert.Equal(t, tt.wantFlags, got.Flags)
			assert.Equal(t, testLoc, got.Location)
		})
	}
}

func TestParseAnnotationErrors(t *testing.T) {
	tests := []struct {
		name     string
		comment  string
		wantCode ErrorCode
		contains string
	}{
		{"not a comment", "pretend::client", SyntaxErrorCode, "must start with '//'"},
		{"wrong prefix", "//client::route GET /", SyntaxErrorCode, "pretend::"},
		{"missing type", "//pretend::", SyntaxErrorCode, "missing annotation type"},
		{"unknown type", "//pretend::route GET /", SyntaxErrorCode, "unknown annotation type"},
		{"unterminated string", `//pretend::header X "abc`, SyntaxErrorCode, "syntax error"},
		{"unknown client flag", "//pretend::client -Shared", SchemaErrorCode, "unknown flag -Shared"},
		{"client argument", "//pretend::client api", SchemaErrorCode, "takes no arguments"},
		{"duplicate named", "//pretend::request -method=GET -method=POST", SchemaErrorCode, "given twice"},
		{"positional and named clash", "//pretend::request GET /a -method=POST", SchemaErrorCode, "given twice"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseAnnotation(tt.comment, testLoc)
			require.Error(t, err)

			var annErr AnnotationError
			require.True(t, errors.As(err, &annErr))
			assert.Equal(t, tt.wantCode, annErr.Code())
			assert.Equal(t, testLoc, annErr.Location())
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestSyntaxSuggestions(t *testing.T) {
	_, err := NewParser().ParseAnnotation("//pretend::route GET /", testLoc)
	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Contains(t, syn.Suggestion(), "//pretend::request")

	_, err = NewParser().ParseAnnotation("//pretend::client -Shared", testLoc)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "Example: //pretend::client", schemaErr.Suggestion())
}

func TestToRaw(t *testing.T) {
	p := NewParser()

	req, err := p.ParseAnnotation("//pretend::request GET /get", testLoc)
	require.NoError(t, err)
	raw := req.ToRaw()
	assert.Equal(t, descriptor.AnnotationRequest, raw.Kind)
	assert.Equal(t, []string{"method", "path"}, raw.Keys)
	assert.Equal(t, descriptor.Location{File: "client.go", Line: 12, Column: 2}, raw.Location)

	hdr, err := p.ParseAnnotation("//pretend::header X-Test 1 -Extra", testLoc)
	require.NoError(t, err)
	raw = hdr.ToRaw()
	assert.Equal(t, descriptor.AnnotationHeader, raw.Kind)
	assert.Equal(t, []string{"name", "value", "Extra"}, raw.Keys)
	v, ok := raw.Get("Extra")
	assert.True(t, ok)
	assert.Empty(t, v)

	client, err := p.ParseAnnotation("//pretend::client", testLoc)
	require.NoError(t, err)
	raw = client.ToRaw()
	assert.Equal(t, descriptor.AnnotationInvalid, raw.Kind)
	assert.Contains(t, raw.Problem, "client")
}

func TestToRawFeedsDescriptorParser(t *testing.T) {
	p := NewParser()
	parse := func(comment string) descriptor.RawAnnotation {
		a, err := p.ParseAnnotation(comment, testLoc)
		require.NoError(t, err)
		return a.ToRaw()
	}

	method := descriptor.RawMethod{
		Name:     "Get",
		Receiver: descriptor.ReceiverInterface,
		Results:  []descriptor.TypeRef{{Kind: descriptor.TypeString, Expr: "string"}, {Kind: descriptor.TypeError, Expr: "error"}},
		Annotations: []descriptor.RawAnnotation{
			parse("//pretend::request GET /get"),
			parse("//pretend::header X-Test value"),
		},
	}
	got, diags := descriptor.ParseMethod(method)
	require.Empty(t, diags)
	assert.Equal(t, "GET", got.Verb)
	assert.Equal(t, []descriptor.HeaderTemplate{{Name: "X-Test", Value: "value"}}, got.Headers)

	method.Annotations = []descriptor.RawAnnotation{parse("//pretend::request GET /a /b")}
	_, diags = descriptor.ParseMethod(method)
	assert.True(t, diags.Has(descriptor.CodeInvalidRequest))
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("  //pretend::client"))
	assert.True(t, IsAnnotation("// pretend::client"))
	assert.False(t, IsAnnotation("/* pretend::client */"))
	assert.False(t, IsAnnotation("// regular comment"))
}
