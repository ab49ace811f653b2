package generator

import "github.com/toyz/pretend/internal/models"

// CodeGenerator turns parsed client metadata into generated Go source
type CodeGenerator interface {
	GenerateModule(metadata *models.PackageMetadata) (*models.GeneratedModule, error)
	WriteModule(module *models.GeneratedModule) error
}
