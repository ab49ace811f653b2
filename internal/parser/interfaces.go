package parser

import (
	"go/ast"

	"github.com/toyz/pretend/internal/models"
)

// AnnotationParser defines the interface for parsing Go source files and extracting client metadata
type AnnotationParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	ExtractClients(file *ast.File, fileName string) ([]models.ClientMetadata, []error)
}
