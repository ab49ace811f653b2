package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/pretend/internal/models"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	imports map[models.Import]bool
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		imports: make(map[models.Import]bool),
	}
}

// AddImport adds an import under its default name
func (im *ImportManager) AddImport(importPath string) {
	im.AddPackageImport("", importPath)
}

// AddPackageImport adds an import with an explicit name
func (im *ImportManager) AddPackageImport(alias, path string) {
	if path == "" || alias == "_" || alias == "." {
		return
	}
	im.imports[models.Import{Name: alias, Path: path}] = true
}

// AddImports adds every import of a source file
func (im *ImportManager) AddImports(imports ...models.Import) {
	for _, imp := range imports {
		im.AddPackageImport(imp.Name, imp.Path)
	}
}

// Len returns the number of distinct imports
func (im *ImportManager) Len() int {
	return len(im.imports)
}

// GenerateImports renders the import block. Standard library imports come
// first; unused imports are left for the formatter to drop.
func (im *ImportManager) GenerateImports() string {
	if len(im.imports) == 0 {
		return ""
	}

	var std, other []models.Import
	for imp := range im.imports {
		if isStandard(imp.Path) {
			std = append(std, imp)
		} else {
			other = append(other, imp)
		}
	}
	sortImports(std)
	sortImports(other)

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString("\t" + importLine(imp) + "\n")
	}
	if len(std) > 0 && len(other) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range other {
		result.WriteString("\t" + importLine(imp) + "\n")
	}
	result.WriteString(")\n")
	return result.String()
}

// sortImports orders imports by path, then by name, as gofmt does.
func sortImports(imports []models.Import) {
	sort.Slice(imports, func(i, j int) bool {
		if imports[i].Path != imports[j].Path {
			return imports[i].Path < imports[j].Path
		}
		return imports[i].Name < imports[j].Name
	})
}

func importLine(imp models.Import) string {
	line := fmt.Sprintf("%q", imp.Path)
	if imp.Name != "" {
		line = imp.Name + " " + line
	}
	return line
}

func isStandard(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
