package codec

import (
	"errors"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testData struct {
	First  string `json:"first" schema:"first" validate:"required"`
	Second int    `json:"second" schema:"second"`
}

func TestJSONRoundTrip(t *testing.T) {
	c := New()

	data, err := c.Marshal(testData{First: "Hello", Second: 123})
	require.NoError(t, err)
	assert.JSONEq(t, `{"first":"Hello","second":123}`, string(data))

	var decoded testData
	require.NoError(t, c.Unmarshal(data, &decoded))
	assert.Equal(t, testData{First: "Hello", Second: 123}, decoded)
}

func TestUnmarshalInvalid(t *testing.T) {
	var decoded testData
	err := New().Unmarshal([]byte("{not json"), &decoded)
	assert.Error(t, err)
}

func TestEncodeForm(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"struct", testData{First: "Hello", Second: 123}, "first=Hello&second=123"},
		{"struct pointer", &testData{First: "a b", Second: 1}, "first=a+b&second=1"},
		{"string map", map[string]string{"b": "2", "a": "1"}, "a=1&b=2"},
		{"values", url.Values{"k": {"v1", "v2"}}, "k=v1&k=v2"},
		{"any map", map[string]any{"n": 5, "list": []int{1, 2}}, "list=1&list=2&n=5"},
		{"encoded string", "x=1&y=2", "x=1&y=2"},
		{"nil", nil, ""},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.EncodeForm(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeQueryUnsupported(t *testing.T) {
	_, err := New().EncodeQuery(42)
	assert.Error(t, err)

	_, err = New().EncodeQuery(map[int]string{1: "a"})
	assert.Error(t, err)
}

func TestFormTag(t *testing.T) {
	type tagged struct {
		Name string `form:"name"`
	}

	got, err := New(WithFormTag("form")).EncodeForm(tagged{Name: "pretend"})
	require.NoError(t, err)
	assert.Equal(t, "name=pretend", got)
}

func TestValidation(t *testing.T) {
	c := New(WithValidator(validator.New()))

	_, err := c.Marshal(testData{Second: 1})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = c.EncodeForm(&testData{Second: 1})
	assert.Error(t, err)

	_, err = c.Marshal(testData{First: "ok"})
	assert.NoError(t, err)

	_, err = c.Marshal([]int{1, 2})
	assert.NoError(t, err)
}
