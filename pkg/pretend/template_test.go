package pretend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     map[string]string
		want     string
	}{
		{"no placeholders", "/get", nil, "/get"},
		{"single", "/get/{value}", map[string]string{"value": "42"}, "/get/42"},
		{"multiple", "/{user}/{id}", map[string]string{"user": "a", "id": "5"}, "/a/5"},
		{"repeated", "/{id}/{id}", map[string]string{"id": "7"}, "/7/7"},
		{"empty braces", "/{}", map[string]string{}, "/{}"},
		{"extra args ignored", "/{a}", map[string]string{"a": "1", "b": "2"}, "/1"},
		{"header value", "Bearer {token}", map[string]string{"token": "abc"}, "Bearer abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMissingArgument(t *testing.T) {
	_, err := Render("/{missing}", map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTemplateArgument))
	assert.Contains(t, err.Error(), "missing")
}

func TestTemplateParams(t *testing.T) {
	assert.Equal(t, []string{"user", "id"}, TemplateParams("/{user}/{id}/{user}"))
	assert.Empty(t, TemplateParams("/static/{}"))
}

func TestFormatArg(t *testing.T) {
	n := 5
	var nilPtr *int

	assert.Equal(t, "x", FormatArg("x"))
	assert.Equal(t, "42", FormatArg(42))
	assert.Equal(t, "1.5", FormatArg(1.5))
	assert.Equal(t, "true", FormatArg(true))
	assert.Equal(t, "5", FormatArg(&n))
	assert.Equal(t, "", FormatArg(nilPtr))
	assert.Equal(t, "", FormatArg(nil))
	assert.Equal(t, "7", FormatArg(uint8(7)))
}
