package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pretend/internal/generator"
	"github.com/toyz/pretend/internal/parser"
	"github.com/toyz/pretend/internal/utils"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// TestExampleIsUpToDate regenerates the httpbin example and compares it with
// the committed file.
func TestExampleIsUpToDate(t *testing.T) {
	dir := filepath.Join("..", "examples", "httpbin")

	metadata, err := parser.NewParser().ParseDirectory(dir)
	require.NoError(t, err)
	require.Len(t, metadata.Clients, 3)

	kinds := map[string]descriptor.ClientKind{}
	for _, c := range metadata.Clients {
		kinds[c.Name] = c.Descriptor.Kind
	}
	assert.Equal(t, map[string]descriptor.ClientKind{
		"HttpBin":         descriptor.SharedAsync,
		"BlockingHttpBin": descriptor.Blocking,
		"LocalHttpBin":    descriptor.ThreadConfinedAsync,
	}, kinds)

	module, err := generator.NewGenerator().GenerateModule(metadata)
	require.NoError(t, err)
	require.NoError(t, utils.ValidateGoCode(module.Content))

	committed, err := os.ReadFile(filepath.Join(dir, utils.GeneratedFileName))
	require.NoError(t, err)
	assert.Equal(t, string(committed), module.Content, "run go generate ./examples/...")

	stale, err := generator.NewGenerator().IsStale(module)
	require.NoError(t, err)
	assert.False(t, stale)
}

// TestRawAndFormattedOutputAgree checks that formatting only changes layout.
func TestRawAndFormattedOutputAgree(t *testing.T) {
	metadata, err := parser.NewParser().ParseDirectory(filepath.Join("..", "examples", "httpbin"))
	require.NoError(t, err)

	raw, err := generator.NewRawGenerator().GenerateModule(metadata)
	require.NoError(t, err)
	formatted, err := generator.NewGenerator().GenerateModule(metadata)
	require.NoError(t, err)

	reformatted, err := utils.FormatGoCode(raw.FilePath, []byte(raw.Content))
	require.NoError(t, err)
	assert.Equal(t, formatted.Content, string(reformatted))
	assert.Equal(t, formatted.Clients, raw.Clients)
}
