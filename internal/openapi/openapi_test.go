package openapi

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

func httpBin(t *testing.T) *descriptor.InterfaceDescriptor {
	t.Helper()
	desc, err := descriptor.NewInterface("HttpBin",
		descriptor.WithMethod("Get",
			descriptor.Request("GET", "/get/{value}"),
			descriptor.Header("X-Test", "{value}"),
			descriptor.Header("Accept", "text/plain"),
			descriptor.Context(),
			descriptor.Param("value"),
			descriptor.Returns(descriptor.ShapeText),
		),
		descriptor.WithMethod("Search",
			descriptor.Request("GET", "/search?page={page}"),
			descriptor.Context(),
			descriptor.Param("page"),
			descriptor.Param("query"),
			descriptor.Returns(descriptor.ShapeJSON),
		),
		descriptor.WithMethod("PostForm",
			descriptor.Request("POST", "/post/form"),
			descriptor.Context(),
			descriptor.Param("form"),
			descriptor.ReturnsResponse(descriptor.ShapeBytes),
		),
		descriptor.WithMethod("Status",
			descriptor.Request("PUT", "status/{code}"),
			descriptor.Context(),
			descriptor.Param("code"),
			descriptor.Param("json"),
			descriptor.Returns(descriptor.ShapeJSONResult),
		),
	)
	require.NoError(t, err)
	return desc
}

func TestBuild(t *testing.T) {
	doc, err := Build(Options{Title: "httpbin", Version: "1.0.0", ServerURL: "https://httpbin.org"}, []*descriptor.InterfaceDescriptor{httpBin(t)})
	require.NoError(t, err)

	assert.Equal(t, "httpbin", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://httpbin.org", doc.Servers[0].URL)
	assert.Equal(t, 4, doc.Paths.Len())

	get := doc.Paths.Value("/get/{value}").Get
	require.NotNil(t, get)
	assert.Equal(t, "HttpBin.Get", get.OperationID)
	assert.Equal(t, []string{"HttpBin"}, get.Tags)
	require.Len(t, get.Parameters, 2)
	assert.Equal(t, openapi3.ParameterInPath, get.Parameters[0].Value.In)
	assert.Equal(t, "value", get.Parameters[0].Value.Name)
	assert.Equal(t, openapi3.ParameterInHeader, get.Parameters[1].Value.In)
	assert.Equal(t, "X-Test", get.Parameters[1].Value.Name)
	assert.Nil(t, get.RequestBody)
	assert.NotNil(t, get.Responses.Status(200).Value.Content.Get("text/plain"))

	search := doc.Paths.Value("/search").Get
	require.NotNil(t, search)
	require.Len(t, search.Parameters, 2)
	assert.Equal(t, "page", search.Parameters[0].Value.Name)
	assert.Equal(t, openapi3.ParameterInQuery, search.Parameters[0].Value.In)
	assert.Equal(t, "query", search.Parameters[1].Value.Name)
	assert.Equal(t, openapi3.SerializationForm, search.Parameters[1].Value.Style)

	post := doc.Paths.Value("/post/form").Post
	require.NotNil(t, post)
	require.NotNil(t, post.RequestBody)
	assert.NotNil(t, post.RequestBody.Value.Content.Get("application/x-www-form-urlencoded"))
	assert.NotNil(t, post.Responses.Status(200).Value.Content.Get("application/octet-stream"))

	status := doc.Paths.Value("/status/{code}").Put
	require.NotNil(t, status)
	assert.NotNil(t, status.RequestBody.Value.Content.Get("application/json"))
	assert.NotNil(t, status.Responses.Default())
}

func TestBuild_Defaults(t *testing.T) {
	doc, err := Build(Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pretend clients", doc.Info.Title)
	assert.Equal(t, "0.0.0", doc.Info.Version)
	assert.Empty(t, doc.Servers)
}

func TestBuild_DuplicateOperation(t *testing.T) {
	other, err := descriptor.NewInterface("Other",
		descriptor.WithMethod("Fetch",
			descriptor.Request("GET", "/get/{value}"),
			descriptor.Param("value"),
		),
	)
	require.NoError(t, err)

	_, err = Build(Options{}, []*descriptor.InterfaceDescriptor{httpBin(t), other})
	assert.EqualError(t, err, "Other.Fetch: GET /get/{value} is already declared by HttpBin.Get")
}

func TestMarshal(t *testing.T) {
	doc, err := Build(Options{Title: "httpbin", Version: "1.0.0"}, []*descriptor.InterfaceDescriptor{httpBin(t)})
	require.NoError(t, err)

	out, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"operationId": "HttpBin.Get"`)

	loaded, err := openapi3.NewLoader().LoadFromData(out)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Paths.Len())

	out, err = Marshal(doc, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "openapi: 3.0.3\n")
	assert.Contains(t, string(out), "operationId: HttpBin.Get\n")
	assert.Contains(t, string(out), `"200":`)

	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(out, &generic))
	assert.Equal(t, "3.0.3", generic["openapi"])

	loaded, err = openapi3.NewLoader().LoadFromData(out)
	require.NoError(t, err)
	assert.Equal(t, "httpbin", loaded.Info.Title)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"": FormatYAML, "yml": FormatYAML, "YAML": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFormat("toml")
	assert.Error(t, err)
}
