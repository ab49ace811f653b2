package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/pretend/internal/annotations"
	"github.com/toyz/pretend/internal/models"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// Parser implements the AnnotationParser interface
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.ParticipleParser
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(),
	}
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}

	clients, errs := p.ExtractClients(file, filename)
	metadata.Clients = clients

	defErrs := &DefinitionErrors{}
	defErrs.add(errs...)
	return metadata, defErrs.errOrNil()
}

// ParseDirectory scans the .go files of one directory for pretend clients.
// Test files and previously generated files are skipped. Invalid
// definitions are reported as *DefinitionErrors while valid clients of the
// package are still returned.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isSourceFile(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}

	metadata := &models.PackageMetadata{PackagePath: path}
	defErrs := &DefinitionErrors{}

	for _, name := range names {
		fileName := filepath.Join(path, name)
		file, err := parser.ParseFile(p.fileSet, fileName, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse file %s: %w", fileName, err)
		}

		switch metadata.PackageName {
		case "":
			metadata.PackageName = file.Name.Name
		case file.Name.Name:
		default:
			return nil, fmt.Errorf("multiple packages found in directory %s: %s and %s",
				path, metadata.PackageName, file.Name.Name)
		}

		clients, errs := p.ExtractClients(file, fileName)
		metadata.Clients = append(metadata.Clients, clients...)
		defErrs.add(errs...)
	}

	return metadata, defErrs.errOrNil()
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		name != GeneratedFileName
}

// fileContext carries what the classification of type expressions in one
// file needs to know about its imports.
type fileContext struct {
	name    string
	imports []models.Import
	pretend string
	context string
}

func (p *Parser) newFileContext(file *ast.File, fileName string) *fileContext {
	fc := &fileContext{name: fileName}
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := models.Import{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		fc.imports = append(fc.imports, imp)

		qualifier := imp.Name
		if qualifier == "" {
			qualifier = filepath.Base(path)
		}
		if qualifier == "_" || qualifier == "." {
			continue
		}
		switch path {
		case PretendImportPath:
			fc.pretend = qualifier
		case ContextImportPath:
			fc.context = qualifier
		}
	}
	return fc
}

// ExtractClients walks the declarations of one file. Every annotated
// interface is validated; misplaced annotations are reported as well.
func (p *Parser) ExtractClients(file *ast.File, fileName string) ([]models.ClientMetadata, []error) {
	fc := p.newFileContext(file, fileName)

	var (
		clients []models.ClientMetadata
		errs    []error
	)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				client, err := p.processTypeSpec(fc, ts, doc)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if client != nil {
					clients = append(clients, *client)
				}
			}
		case *ast.FuncDecl:
			if err := p.processFuncDecl(fc, d); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return clients, errs
}

func (p *Parser) location(pos token.Pos) descriptor.Location {
	position := p.fileSet.Position(pos)
	return descriptor.Location{File: position.Filename, Line: position.Line, Column: position.Column}
}

func (p *Parser) sourceLocation(pos token.Pos) annotations.SourceLocation {
	loc := p.location(pos)
	return annotations.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column}
}

// annotationsOf parses every //pretend:: line of a comment group. Lines that
// fail to parse are returned as invalid raw annotations.
func (p *Parser) annotationsOf(doc *ast.CommentGroup) ([]*annotations.ParsedAnnotation, []descriptor.RawAnnotation) {
	if doc == nil {
		return nil, nil
	}

	var (
		parsed  []*annotations.ParsedAnnotation
		invalid []descriptor.RawAnnotation
	)
	for _, c := range doc.List {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		a, err := p.annotations.ParseAnnotation(c.Text, p.sourceLocation(c.Slash))
		if err != nil {
			invalid = append(invalid, descriptor.RawAnnotation{
				Kind:     descriptor.AnnotationInvalid,
				Problem:  annotations.Message(err),
				Location: p.location(c.Slash),
			})
			continue
		}
		parsed = append(parsed, a)
	}
	return parsed, invalid
}

func (p *Parser) processTypeSpec(fc *fileContext, ts *ast.TypeSpec, doc *ast.CommentGroup) (*models.ClientMetadata, error) {
	parsed, invalid := p.annotationsOf(doc)
	if len(parsed) == 0 && len(invalid) == 0 {
		return nil, nil
	}

	loc := p.location(ts.Name.Pos())
	var (
		diags  descriptor.Diagnostics
		client []*annotations.ParsedAnnotation
	)
	for _, a := range invalid {
		diags = append(diags, &descriptor.Diagnostic{Code: descriptor.CodeInvalidAnnotation, Message: a.Problem, Location: a.Location})
	}
	for _, a := range parsed {
		if a.Type != annotations.ClientAnnotation {
			diags = append(diags, &descriptor.Diagnostic{
				Code:     descriptor.CodeInvalidAnnotation,
				Message:  fmt.Sprintf("`pretend::%s` must annotate an interface method", a.Type),
				Location: a.Location.Descriptor(),
			})
			continue
		}
		client = append(client, a)
	}

	if len(client) > 1 {
		d := &descriptor.Diagnostic{
			Code:     descriptor.CodeInvalidAnnotation,
			Message:  "`pretend::client` must be given only once",
			Location: loc,
		}
		for _, a := range client {
			d.Notes = append(d.Notes, descriptor.Note{Message: "`pretend::client` annotation defined here", Location: a.Location.Descriptor()})
		}
		diags = append(diags, d)
	}

	if len(client) == 0 {
		return nil, &descriptor.Error{Interface: ts.Name.Name, Diagnostics: diags}
	}

	iface, ok := ts.Type.(*ast.InterfaceType)
	if !ok {
		diags = append(diags, &descriptor.Diagnostic{
			Code:     descriptor.CodeUnsupportedItem,
			Message:  fmt.Sprintf("`pretend::client` must annotate an interface type, %s is not one", ts.Name.Name),
			Location: loc,
		})
		return nil, &descriptor.Error{Interface: ts.Name.Name, Diagnostics: diags}
	}

	raw, methods := p.rawInterface(fc, ts, iface)
	for _, a := range client {
		raw.Local = raw.Local || a.HasFlag("Local")
	}

	desc, err := descriptor.ParseInterface(raw)
	if err != nil {
		if derr, ok := err.(*descriptor.Error); ok {
			derr.Diagnostics = append(diags, derr.Diagnostics...)
			return nil, derr
		}
		return nil, err
	}
	if len(diags) > 0 {
		return nil, &descriptor.Error{Interface: ts.Name.Name, Diagnostics: diags}
	}

	return &models.ClientMetadata{
		Name:             ts.Name.Name,
		FileName:         fc.name,
		Descriptor:       desc,
		Methods:          methods,
		Imports:          fc.imports,
		PretendQualifier: fc.pretend,
		ContextQualifier: fc.context,
	}, nil
}

func (p *Parser) rawInterface(fc *fileContext, ts *ast.TypeSpec, iface *ast.InterfaceType) (descriptor.RawInterface, []models.MethodSignature) {
	raw := descriptor.RawInterface{
		Name:     ts.Name.Name,
		Location: p.location(ts.Name.Pos()),
	}
	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			for _, name := range field.Names {
				raw.TypeParams = append(raw.TypeParams, name.Name)
			}
		}
	}

	var methods []models.MethodSignature
	for _, field := range iface.Methods.List {
		fn, isMethod := field.Type.(*ast.FuncType)
		if !isMethod || len(field.Names) == 0 {
			if isTypeSet(field.Type) {
				raw.TypeParams = append(raw.TypeParams, exprString(field.Type))
				continue
			}
			raw.Items = append(raw.Items, descriptor.RawItem{
				Description: "embedded " + exprString(field.Type),
				Location:    p.location(field.Pos()),
			})
			continue
		}

		for _, name := range field.Names {
			rm, sig := p.rawMethod(fc, name, fn, field.Doc)
			rm.Receiver = descriptor.ReceiverInterface
			raw.Methods = append(raw.Methods, rm)
			methods = append(methods, sig)
		}
	}
	return raw, methods
}

func isTypeSet(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		return e.Op == token.OR
	case *ast.UnaryExpr:
		return e.Op == token.TILDE
	default:
		return false
	}
}

func (p *Parser) rawMethod(fc *fileContext, name *ast.Ident, fn *ast.FuncType, doc *ast.CommentGroup) (descriptor.RawMethod, models.MethodSignature) {
	rm := descriptor.RawMethod{
		Name:     name.Name,
		Location: p.location(name.Pos()),
	}
	sig := models.MethodSignature{Name: name.Name}

	if fn.TypeParams != nil {
		for _, field := range fn.TypeParams.List {
			for _, n := range field.Names {
				rm.TypeParams = append(rm.TypeParams, n.Name)
			}
		}
	}

	if fn.Params != nil {
		for _, field := range fn.Params.List {
			ref := classify(fc, field.Type)
			if len(field.Names) == 0 {
				rm.Params = append(rm.Params, descriptor.RawParam{Type: ref, Location: p.location(field.Pos())})
				sig.Params = append(sig.Params, models.Param{Type: ref.Expr})
				continue
			}
			for _, n := range field.Names {
				rm.Params = append(rm.Params, descriptor.RawParam{Name: n.Name, Type: ref, Location: p.location(n.Pos())})
				sig.Params = append(sig.Params, models.Param{Name: n.Name, Type: ref.Expr})
			}
		}
	}

	if fn.Results != nil {
		for _, field := range fn.Results.List {
			ref := classify(fc, field.Type)
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				rm.Results = append(rm.Results, ref)
				sig.Results = append(sig.Results, ref.Expr)
			}
		}
	}

	parsed, invalid := p.annotationsOf(doc)
	rm.Annotations = append(rm.Annotations, invalid...)
	for _, a := range parsed {
		rm.Annotations = append(rm.Annotations, a.ToRaw())
	}

	return rm, sig
}

// processFuncDecl reports annotations placed on functions and concrete
// methods, which cannot be implemented.
func (p *Parser) processFuncDecl(fc *fileContext, fd *ast.FuncDecl) error {
	parsed, invalid := p.annotationsOf(fd.Doc)
	if len(parsed) == 0 && len(invalid) == 0 {
		return nil
	}

	rm, _ := p.rawMethod(fc, fd.Name, fd.Type, fd.Doc)
	rm.Receiver = descriptor.ReceiverNone
	owner := fd.Name.Name
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		recv := fd.Recv.List[0].Type
		rm.Receiver = descriptor.ReceiverValue
		if star, ok := recv.(*ast.StarExpr); ok {
			rm.Receiver = descriptor.ReceiverPointer
			recv = star.X
		}
		owner = exprString(recv) + "." + fd.Name.Name
	}

	_, diags := descriptor.ParseMethod(rm)
	return &descriptor.Error{Interface: owner, Diagnostics: diags}
}
