package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/pretend/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser()}
}

// ResolveModuleName returns customModule when set, otherwise the module
// declared by the nearest go.mod above the working directory
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	goModPath, err := r.goMod.FindGoModFile(wd)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}
	return r.goMod.ParseModuleName(goModPath)
}

// BuildPackagePath builds the import path of packageDir. With a custom
// module name the path is relative to the working directory; otherwise it
// is relative to the directory of the nearest go.mod.
func (r *ModuleResolver) BuildPackagePath(customModule, packageDir string) (string, error) {
	if customModule == "" {
		goModPath, err := r.goMod.FindGoModFile(packageDir)
		if err != nil {
			return "", fmt.Errorf("failed to locate go.mod for %s: %w", packageDir, err)
		}
		return r.goMod.ImportPath(goModPath, packageDir)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	abs, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	if rel == "." {
		return customModule, nil
	}
	return customModule + "/" + filepath.ToSlash(rel), nil
}
