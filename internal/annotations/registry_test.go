package annotations

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(r))

	assert.Equal(t, []AnnotationType{ClientAnnotation, RequestAnnotation, HeaderAnnotation}, r.ListTypes())
	assert.True(t, r.IsRegistered(HeaderAnnotation))

	schema, err := r.GetSchema(RequestAnnotation)
	require.NoError(t, err)
	assert.Equal(t, []string{"method", "path"}, schema.Positional)

	err = r.Register(ClientAnnotation, ClientAnnotationSchema)
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Contains(t, regErr.Error(), "already registered")
}

func TestRegistryRejectsBadSchemas(t *testing.T) {
	tests := []struct {
		name   string
		typ    AnnotationType
		schema AnnotationSchema
	}{
		{"type mismatch", HeaderAnnotation, AnnotationSchema{Type: ClientAnnotation}},
		{"empty name", ClientAnnotation, AnnotationSchema{Type: ClientAnnotation, Flags: []string{""}}},
		{"duplicate name", RequestAnnotation, AnnotationSchema{Type: RequestAnnotation, Positional: []string{"a", "a"}}},
		{"rest without positional", HeaderAnnotation, AnnotationSchema{Type: HeaderAnnotation, Rest: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewRegistry().Register(tt.typ, tt.schema))
		})
	}
}

func TestUnregisteredType(t *testing.T) {
	p := NewParticipleParser(NewRegistry())
	_, err := p.ParseAnnotation("//pretend::client", testLoc)
	assert.ErrorContains(t, err, "not registered")
}

func TestDefaultRegistryConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, DefaultRegistry().IsRegistered(ClientAnnotation))
		}()
	}
	wg.Wait()
}

func TestMultipleAnnotationErrors(t *testing.T) {
	errs := &MultipleAnnotationErrors{}
	assert.NoError(t, errs.ErrOrNil())

	errs.Add(&SyntaxError{Msg: "bad", Loc: testLoc})
	assert.Equal(t, "client.go:12:2: syntax error: bad", errs.Error())

	errs.Add(&SchemaError{Msg: "worse", Loc: testLoc, Hint: "fix it"})
	assert.Contains(t, errs.Error(), "2 annotation errors")
	assert.Contains(t, errs.Error(), "schema error: worse. fix it")
	assert.True(t, errs.HasType(SchemaErrorCode))
	assert.Len(t, errs.GetByType(SyntaxErrorCode), 1)
	assert.False(t, errs.HasType(RegistrationErrorCode))

	var syn *SyntaxError
	assert.ErrorAs(t, errs.ErrOrNil(), &syn)
}
