package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/pretend/internal/models"
	"github.com/toyz/pretend/internal/templates"
	"github.com/toyz/pretend/internal/utils"
)

// Generator renders client implementations for packages with pretend clients
type Generator struct {
	format bool
}

// NewGenerator creates a generator that formats its output with goimports
func NewGenerator() *Generator {
	return &Generator{format: true}
}

// NewRawGenerator creates a generator that skips formatting
func NewRawGenerator() *Generator {
	return &Generator{}
}

// GenerateModule renders the generated file for one package
func (g *Generator) GenerateModule(metadata *models.PackageMetadata) (*models.GeneratedModule, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if !metadata.HasClients() {
		return nil, fmt.Errorf("package %s has no clients to generate", metadata.PackageName)
	}

	filePath := filepath.Join(metadata.PackagePath, utils.GeneratedFileName)

	data, err := templates.BuildFileData(metadata)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "failed to prepare template data",
			Cause:   err,
		}
	}

	content, err := templates.RenderFile(data)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "failed to render clients",
			Cause:   err,
		}
	}

	if g.format {
		formatted, err := utils.FormatGoCode(filePath, []byte(content))
		if err != nil {
			return nil, &models.GeneratorError{
				Type:        models.ErrorTypeGeneration,
				File:        filePath,
				Message:     "generated code does not compile",
				Cause:       err,
				Suggestions: []string{"Run with --raw to inspect the unformatted output"},
			}
		}
		content = string(formatted)
	}

	clients := make([]string, len(metadata.Clients))
	for i, c := range metadata.Clients {
		clients[i] = c.Name
	}

	return &models.GeneratedModule{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     content,
		Clients:     clients,
	}, nil
}

// WriteModule writes module to disk, leaving an identical file untouched
func (g *Generator) WriteModule(module *models.GeneratedModule) error {
	if module == nil {
		return fmt.Errorf("module cannot be nil")
	}

	existing, err := os.ReadFile(module.FilePath)
	if err == nil && bytes.Equal(existing, []byte(module.Content)) {
		return nil
	}

	if err := os.WriteFile(module.FilePath, []byte(module.Content), 0o644); err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    module.FilePath,
			Message: "failed to write generated file",
			Cause:   err,
		}
	}
	return nil
}

// IsStale reports whether the file on disk differs from module
func (g *Generator) IsStale(module *models.GeneratedModule) (bool, error) {
	existing, err := os.ReadFile(module.FilePath)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", module.FilePath, err)
	}
	return !bytes.Equal(existing, []byte(module.Content)), nil
}
