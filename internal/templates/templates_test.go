package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pretend/internal/models"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

func sampleClient() models.ClientMetadata {
	return models.ClientMetadata{
		Name:     "HttpBin",
		FileName: "/src/httpbin/httpbin.go",
		Descriptor: &descriptor.InterfaceDescriptor{
			Name: "HttpBin",
			Kind: descriptor.SharedAsync,
			Methods: []*descriptor.MethodDescriptor{
				{
					Name:     "Get",
					Verb:     "GET",
					Path:     "/get/{value}",
					Headers:  []descriptor.HeaderTemplate{{Name: "X-Test", Value: "{value}"}},
					Async:    true,
					Shape:    descriptor.ResponseShape{Kind: descriptor.ShapeText},
					Params:   []string{"value"},
					Location: descriptor.Location{File: "/src/httpbin/httpbin.go", Line: 12, Column: 2},
				},
				{
					Name:     "Delete",
					Verb:     "DELETE",
					Path:     "/delete",
					Async:    true,
					Shape:    descriptor.ResponseShape{Kind: descriptor.ShapeUnit},
					Location: descriptor.Location{File: "/src/httpbin/httpbin.go", Line: 15, Column: 2},
				},
			},
			Location: descriptor.Location{File: "/src/httpbin/httpbin.go", Line: 10, Column: 6},
		},
		Methods: []models.MethodSignature{
			{
				Name:    "Get",
				Params:  []models.Param{{Name: "c", Type: "context.Context"}, {Name: "value", Type: "string"}},
				Results: []string{"string", "error"},
			},
			{
				Name:    "Delete",
				Params:  []models.Param{{Name: "_", Type: "context.Context"}},
				Results: []string{"error"},
			},
		},
		Imports:          []models.Import{{Path: "context"}, {Name: "pt", Path: PretendImportPath}},
		PretendQualifier: "pt",
		ContextQualifier: "context",
	}
}

func TestBuildClientData(t *testing.T) {
	cd, err := BuildClientData(sampleClient())
	require.NoError(t, err)

	assert.Equal(t, "httpBinClient", cd.StructName)
	assert.Equal(t, "NewHttpBin", cd.Constructor)
	assert.Equal(t, "httpBinDesc", cd.DescriptorVar)
	assert.Equal(t, "HttpBinDescriptor", cd.DescriptorFunc)
	assert.Equal(t, "pt", cd.Pretend)
	assert.Equal(t, "cl", cd.Receiver)
	assert.Equal(t, "SharedAsync", cd.KindName)
	assert.True(t, cd.HasClose)

	require.Len(t, cd.Methods, 2)
	get := cd.Methods[0]
	assert.Equal(t, "c context.Context, value string", get.Params)
	assert.Equal(t, "(string, error)", get.Results)
	assert.Equal(t, `pt.Call[string](c, cl.binding, 0, pt.Args{"value": value})`, get.Call)
	assert.False(t, get.ErrorOnly)

	del := cd.Methods[1]
	assert.Equal(t, "ctx context.Context", del.Params)
	assert.Equal(t, "error", del.Results)
	assert.Equal(t, "pt.Call[pt.Unit](ctx, cl.binding, 1, nil)", del.Call)
	assert.True(t, del.ErrorOnly)
}

func TestBuildClientData_Naming(t *testing.T) {
	client := sampleClient()
	client.Name = "httpBin"
	client.PretendQualifier = ""
	client.Methods[1].Name = "Close"
	client.Descriptor.Kind = descriptor.Blocking
	for _, m := range client.Descriptor.Methods {
		m.Async = false
	}

	cd, err := BuildClientData(client)
	require.NoError(t, err)

	assert.Equal(t, "newHttpBin", cd.Constructor)
	assert.Equal(t, "httpBinDescriptor", cd.DescriptorFunc)
	assert.Equal(t, "pretend", cd.Pretend)
	assert.Equal(t, "cl", cd.Receiver)
	assert.False(t, cd.HasClose)
	assert.Equal(t, `pretend.CallBlocking[string](cl.binding, 0, pretend.Args{"value": value})`, cd.Methods[0].Call)
}

func TestBuildClientData_Errors(t *testing.T) {
	client := sampleClient()
	client.Methods = client.Methods[:1]
	_, err := BuildClientData(client)
	assert.EqualError(t, err, "client HttpBin: 2 descriptors for 1 methods")

	client.Descriptor = nil
	_, err = BuildClientData(client)
	assert.EqualError(t, err, "client HttpBin has no descriptor")

	_, err = BuildFileData(nil)
	assert.Error(t, err)
}

func TestDescriptorLiteral(t *testing.T) {
	desc := &descriptor.InterfaceDescriptor{
		Name: "Upload",
		Kind: descriptor.ThreadConfinedAsync,
		Methods: []*descriptor.MethodDescriptor{{
			Name:     "Send",
			Verb:     "POST",
			Path:     "/post",
			Body:     descriptor.BodyRole{Kind: descriptor.BodyForm, Param: "form"},
			Query:    "query",
			Async:    true,
			Shape:    descriptor.ResponseShape{Kind: descriptor.ShapeJSON, Wrapped: true},
			Params:   []string{"form", "query"},
			Location: descriptor.Location{File: "dir/upload.go", Line: 4, Column: 2},
		}},
		Location: descriptor.Location{File: "dir/upload.go", Line: 2, Column: 6},
	}

	expected := `&d.InterfaceDescriptor{
	Name: "Upload",
	Kind: d.ThreadConfinedAsync,
	Methods: []*d.MethodDescriptor{
		{
			Name: "Send",
			Verb: "POST",
			Path: "/post",
			Body: d.BodyRole{Kind: d.BodyForm, Param: "form"},
			Query: "query",
			Async: true,
			Shape: d.ResponseShape{Kind: d.ShapeJSON, Wrapped: true},
			Params: []string{"form", "query"},
			Location: d.Location{File: "upload.go", Line: 4, Column: 2},
		},
	},
	Location: d.Location{File: "upload.go", Line: 2, Column: 6},
}`
	assert.Equal(t, expected, DescriptorLiteral(desc, "d"))
}

func TestRenderFile(t *testing.T) {
	data, err := BuildFileData(&models.PackageMetadata{
		PackageName: "httpbin",
		Clients:     []models.ClientMetadata{sampleClient()},
	})
	require.NoError(t, err)

	out, err := RenderFile(data)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "// Code generated by pretend. DO NOT EDIT.\n\npackage httpbin\n"))
	assert.Contains(t, out, "import (\n\t\"context\"\n\n\tpt \"github.com/toyz/pretend/pkg/pretend\"\n\t\"github.com/toyz/pretend/pkg/pretend/descriptor\"\n)\n")
	assert.Contains(t, out, "func NewHttpBin(p *pt.Pretend) (HttpBin, error) {")
	assert.Contains(t, out, "func (cl *httpBinClient) Close() error {")
	assert.Contains(t, out, "func (cl *httpBinClient) Delete(ctx context.Context) error {\n\tif _, err := pt.Call[pt.Unit](ctx, cl.binding, 1, nil); err != nil {")
	assert.Contains(t, out, "func (cl *httpBinClient) Get(c context.Context, value string) (string, error) {\n\treturn pt.Call[string]")
}

func TestRenderFileDocumentsConfinedClose(t *testing.T) {
	shared, err := BuildFileData(&models.PackageMetadata{
		PackageName: "httpbin",
		Clients:     []models.ClientMetadata{sampleClient()},
	})
	require.NoError(t, err)
	out, err := RenderFile(shared)
	require.NoError(t, err)
	assert.Contains(t, out, "// SharedAsync client kind.\nfunc NewHttpBin(")
	assert.NotContains(t, out, "io.Closer")

	client := sampleClient()
	client.Descriptor.Kind = descriptor.ThreadConfinedAsync
	confined, err := BuildFileData(&models.PackageMetadata{
		PackageName: "httpbin",
		Clients:     []models.ClientMetadata{client},
	})
	require.NoError(t, err)
	out, err = RenderFile(confined)
	require.NoError(t, err)
	assert.Contains(t, out, "// ThreadConfinedAsync client kind.\n//\n"+
		"// Over a shared transport the client owns a goroutine. Stop it by\n"+
		"// asserting the client to io.Closer and calling Close.\nfunc NewHttpBin(")
}

func TestImportManager(t *testing.T) {
	im := NewImportManager()
	assert.Equal(t, "", im.GenerateImports())

	im.AddImport("net/http")
	im.AddImport("net/http")
	im.AddImport("github.com/example/api")
	im.AddPackageImport("_", "embed")
	im.AddPackageImport(".", "strings")
	im.AddImports(models.Import{Name: "ctx", Path: "context"})

	assert.Equal(t, 3, im.Len())
	assert.Equal(t, "import (\n\tctx \"context\"\n\t\"net/http\"\n\n\t\"github.com/example/api\"\n)\n", im.GenerateImports())
}

func TestImportManagerSortsByPath(t *testing.T) {
	im := NewImportManager()
	im.AddImport("bytes")
	im.AddPackageImport("zz", "archive/tar")
	im.AddPackageImport("aa", "github.com/z/lib")
	im.AddImport("github.com/a/lib")

	assert.Equal(t, "import (\n\tzz \"archive/tar\"\n\t\"bytes\"\n\n\t\"github.com/a/lib\"\n\taa \"github.com/z/lib\"\n)\n", im.GenerateImports())
}

func TestNames(t *testing.T) {
	params := []models.Param{{Name: "ctx"}, {Name: "ctx0"}}
	assert.Equal(t, "ctx1", freeName("ctx", params))
	assert.Equal(t, "value", freeName("value", params))

	methods := []models.MethodSignature{{Params: []models.Param{{Name: "c"}, {Name: "cl"}, {Name: "client"}}}}
	assert.Equal(t, "self", pickReceiver(methods))
	assert.Equal(t, "c0", pickReceiver(methods, "self"))

	assert.Equal(t, "NewAPI", exportedName("New", "API", true))
	assert.Equal(t, "newApi", exportedName("New", "api", false))
	assert.Equal(t, "api", exportedName("", "api", false))
}
