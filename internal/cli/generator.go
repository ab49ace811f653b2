package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toyz/pretend/internal/generator"
	"github.com/toyz/pretend/internal/models"
	"github.com/toyz/pretend/internal/openapi"
	"github.com/toyz/pretend/internal/parser"
	"github.com/toyz/pretend/internal/utils"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// GenerationSummary describes the outcome of the last run
type GenerationSummary struct {
	Packages       int
	Clients        int
	GeneratedFiles []string
	UpToDate       []string
	StaleFiles     []string
	RemovedFiles   []string
	Duration       time.Duration
}

// Generator coordinates scanning, parsing and code generation
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.AnnotationParser
	codeGenerator  *generator.Generator
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a CLI generator. diagnostics may be nil, in which
// case only errors are printed.
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	codeGenerator := generator.NewGenerator()
	if config.Raw {
		codeGenerator = generator.NewRawGenerator()
	}
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser:         parser.NewParser(),
		codeGenerator:  codeGenerator,
		reporter:       NewDiagnosticReporter(config.Verbose),
		diagnostics:    diagnostics,
	}
}

// Reporter returns the reporter used for failures
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Collect scans the configured directories and parses every package found.
// Packages without clients are returned too. Invalid definitions from all
// packages are combined into one *parser.DefinitionErrors.
func (g *Generator) Collect(config Config) ([]*models.PackageMetadata, error) {
	dirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:        models.ErrorTypeFileSystem,
			Message:     "failed to scan directories",
			Cause:       err,
			Suggestions: []string{"Check that every directory passed on the command line exists"},
		}
	}
	g.diagnostics.Verbose("found %d package directories", len(dirs))

	var packages []*models.PackageMetadata
	combined := &parser.DefinitionErrors{}

	for _, dir := range dirs {
		g.diagnostics.Debug("parsing %s", dir)
		metadata, err := g.parser.ParseDirectory(dir)

		var defErrs *parser.DefinitionErrors
		switch {
		case errors.As(err, &defErrs):
			combined.Errors = append(combined.Errors, defErrs.Errors...)
		case err != nil:
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeAnnotationSyntax,
				File:    dir,
				Message: "failed to parse package",
				Cause:   err,
			}
		}

		importPath, err := g.moduleResolver.BuildPackagePath(config.ModuleName, dir)
		if err != nil {
			g.diagnostics.Debug("no import path for %s: %v", dir, err)
		}
		metadata.ImportPath = importPath
		packages = append(packages, metadata)
	}

	if len(combined.Errors) > 0 {
		return packages, combined
	}
	return packages, nil
}

// Run generates, or with config.Check verifies, the client implementations
// of every package under config.Directories
func (g *Generator) Run(config Config) error {
	start := time.Now()
	g.summary = GenerationSummary{}

	if config.Check {
		g.diagnostics.Header("checking generated clients")
	} else {
		g.diagnostics.Header("generating clients")
	}

	packages, err := g.Collect(config)
	if err != nil {
		return err
	}

	g.diagnostics.Indent()
	for _, pkg := range packages {
		if err := g.processPackage(pkg, config.Check); err != nil {
			g.diagnostics.Unindent()
			return err
		}
	}
	g.diagnostics.Unindent()
	g.summary.Duration = time.Since(start)

	if config.Check && len(g.summary.StaleFiles) > 0 {
		return &models.GeneratorError{
			Type:        models.ErrorTypeValidation,
			File:        g.summary.StaleFiles[0],
			Message:     fmt.Sprintf("%d generated file(s) are out of date", len(g.summary.StaleFiles)),
			Suggestions: []string{"Run `pretend gen` and commit the result"},
		}
	}

	g.printSummary(config.Check)
	return nil
}

func (g *Generator) processPackage(pkg *models.PackageMetadata, check bool) error {
	target := filepath.Join(pkg.PackagePath, utils.GeneratedFileName)

	if !pkg.HasClients() {
		if _, err := os.Stat(target); err != nil {
			return nil
		}
		if check {
			g.summary.StaleFiles = append(g.summary.StaleFiles, target)
			g.diagnostics.Warn("%s has no clients left", target)
			return nil
		}
		if err := os.Remove(target); err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				File:    target,
				Message: "failed to remove generated file",
				Cause:   err,
			}
		}
		g.summary.RemovedFiles = append(g.summary.RemovedFiles, target)
		g.diagnostics.Verbose("removed %s", target)
		return nil
	}

	g.summary.Packages++
	g.summary.Clients += len(pkg.Clients)

	module, err := g.codeGenerator.GenerateModule(pkg)
	if err != nil {
		return err
	}
	stale, err := g.codeGenerator.IsStale(module)
	if err != nil {
		return err
	}

	switch {
	case !stale:
		g.summary.UpToDate = append(g.summary.UpToDate, module.FilePath)
		g.diagnostics.Verbose("%s is up to date", module.FilePath)
	case check:
		g.summary.StaleFiles = append(g.summary.StaleFiles, module.FilePath)
		g.diagnostics.Warn("%s is out of date", module.FilePath)
	default:
		if err := g.codeGenerator.WriteModule(module); err != nil {
			return err
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, module.FilePath)
		g.diagnostics.PhaseItem("%s (%s)", pkg.PackageName, strings.Join(module.Clients, ", "))
	}
	return nil
}

func (g *Generator) printSummary(check bool) {
	keys := []string{"packages", "clients", "written", "unchanged", "removed", "duration"}
	stats := map[string]interface{}{
		"packages":  g.summary.Packages,
		"clients":   g.summary.Clients,
		"written":   len(g.summary.GeneratedFiles),
		"unchanged": len(g.summary.UpToDate),
		"removed":   len(g.summary.RemovedFiles),
		"duration":  g.summary.Duration.Round(time.Millisecond),
	}
	title := "Generation complete"
	if check {
		title = "Generated files are up to date"
	}
	g.diagnostics.Summary(title, keys, stats)
}

// Clean removes generated files below config.Directories
func (g *Generator) Clean(config Config) ([]string, error) {
	removed, err := NewCleaner().CleanGeneratedFiles(config.Directories)
	if err != nil {
		return removed, &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: "failed to clean generated files",
			Cause:   err,
		}
	}
	for _, f := range removed {
		g.diagnostics.PhaseItem("removed %s", f)
	}
	return removed, nil
}

// ExportOpenAPI writes an OpenAPI document describing every valid client to
// config.OpenAPI.Output, or to stdout when no output is set
func (g *Generator) ExportOpenAPI(config Config, stdout io.Writer) error {
	format, err := openapi.ParseFormat(config.OpenAPI.Format)
	if err != nil {
		return err
	}

	packages, err := g.Collect(config)
	if err != nil {
		return err
	}

	var clients []*descriptor.InterfaceDescriptor
	for _, pkg := range packages {
		for _, c := range pkg.Clients {
			clients = append(clients, c.Descriptor)
		}
	}

	doc, err := openapi.Build(openapi.Options{
		Title:     config.OpenAPI.Title,
		Version:   config.OpenAPI.Version,
		ServerURL: config.OpenAPI.Server,
	}, clients)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: "failed to build OpenAPI document",
			Cause:   err,
		}
	}

	data, err := openapi.Marshal(doc, format)
	if err != nil {
		return err
	}

	if config.OpenAPI.Output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(config.OpenAPI.Output, data, 0o644); err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    config.OpenAPI.Output,
			Message: "failed to write OpenAPI document",
			Cause:   err,
		}
	}
	g.diagnostics.PhaseItem("wrote %s (%d clients)", config.OpenAPI.Output, len(clients))
	return nil
}
