package templates

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/pretend/internal/models"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

const (
	// PretendImportPath is the runtime package used by generated code
	PretendImportPath = "github.com/toyz/pretend/pkg/pretend"

	// DescriptorImportPath is the descriptor package used by generated code
	DescriptorImportPath = "github.com/toyz/pretend/pkg/pretend/descriptor"

	descriptorPkg  = "descriptor"
	defaultPretend = "pretend"
)

// FileData is the input of the "file" template
type FileData struct {
	PackageName string
	Imports     string
	Clients     []ClientData
}

// ClientData is the input of the "client" template
type ClientData struct {
	Name           string
	StructName     string
	Constructor    string
	DescriptorVar  string
	DescriptorFunc string
	DescriptorPkg  string
	Descriptor     string
	Pretend        string
	Receiver       string
	KindName       string
	Confined       bool
	HasClose       bool
	Methods        []MethodData
}

// MethodData is the input of the "method" template
type MethodData struct {
	StructName string
	Receiver   string
	Name       string
	Params     string
	Results    string
	Call       string
	ErrorOnly  bool
}

var fileTemplate = func() *template.Template {
	registry := NewTemplateRegistry()
	t := template.Must(template.New("file").Parse(registry.MustGet("file")))
	template.Must(t.New("client").Parse(registry.MustGet("client")))
	template.Must(t.New("method").Parse(registry.MustGet("method")))
	return t
}()

// BuildFileData prepares the template input for every client of a package
func BuildFileData(metadata *models.PackageMetadata) (*FileData, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}

	im := NewImportManager()
	data := &FileData{PackageName: metadata.PackageName}

	for _, client := range metadata.Clients {
		cd, err := BuildClientData(client)
		if err != nil {
			return nil, err
		}
		im.AddImports(client.Imports...)
		if client.PretendQualifier == "" {
			im.AddImport(PretendImportPath)
		}
		data.Clients = append(data.Clients, *cd)
	}
	im.AddImport(DescriptorImportPath)

	data.Imports = im.GenerateImports()
	return data, nil
}

// BuildClientData prepares the template input for one client
func BuildClientData(client models.ClientMetadata) (*ClientData, error) {
	desc := client.Descriptor
	if desc == nil {
		return nil, fmt.Errorf("client %s has no descriptor", client.Name)
	}
	if len(desc.Methods) != len(client.Methods) {
		return nil, fmt.Errorf("client %s: %d descriptors for %d methods", client.Name, len(desc.Methods), len(client.Methods))
	}

	pretendName := client.PretendQualifier
	if pretendName == "" {
		pretendName = defaultPretend
	}

	exported := isExported(client.Name)
	cd := &ClientData{
		Name:           client.Name,
		StructName:     lowerFirst(client.Name) + "Client",
		Constructor:    exportedName("New", client.Name, exported),
		DescriptorVar:  lowerFirst(client.Name) + "Desc",
		DescriptorFunc: exportedName("", client.Name, exported) + "Descriptor",
		DescriptorPkg:  descriptorPkg,
		Descriptor:     DescriptorLiteral(desc, descriptorPkg),
		Pretend:        pretendName,
		Receiver:       pickReceiver(client.Methods, pretendName),
		KindName:       desc.Kind.String(),
		Confined:       desc.Kind == descriptor.ThreadConfinedAsync,
		HasClose:       true,
	}

	for i, sig := range client.Methods {
		if sig.Name == "Close" {
			cd.HasClose = false
		}
		cd.Methods = append(cd.Methods, buildMethodData(cd, desc.Methods[i], sig, i))
	}
	return cd, nil
}

func buildMethodData(cd *ClientData, m *descriptor.MethodDescriptor, sig models.MethodSignature, index int) MethodData {
	params := make([]models.Param, len(sig.Params))
	copy(params, sig.Params)

	var ctx string
	if m.Async && len(params) > 0 {
		ctx = params[0].Name
		if ctx == "" || ctx == "_" {
			ctx = freeName("ctx", params)
			params[0].Name = ctx
		}
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Type
	}

	resultType := cd.Pretend + ".Unit"
	results := "error"
	errorOnly := len(sig.Results) == 1
	if !errorOnly {
		resultType = sig.Results[0]
		results = "(" + strings.Join(sig.Results, ", ") + ")"
	}

	args := "nil"
	if len(m.Params) > 0 {
		entries := make([]string, len(m.Params))
		for i, name := range m.Params {
			entries[i] = strconv.Quote(name) + ": " + name
		}
		args = cd.Pretend + ".Args{" + strings.Join(entries, ", ") + "}"
	}

	var call string
	if m.Async {
		call = fmt.Sprintf("%s.Call[%s](%s, %s.binding, %d, %s)", cd.Pretend, resultType, ctx, cd.Receiver, index, args)
	} else {
		call = fmt.Sprintf("%s.CallBlocking[%s](%s.binding, %d, %s)", cd.Pretend, resultType, cd.Receiver, index, args)
	}

	return MethodData{
		StructName: cd.StructName,
		Receiver:   cd.Receiver,
		Name:       sig.Name,
		Params:     strings.Join(parts, ", "),
		Results:    results,
		Call:       call,
		ErrorOnly:  errorOnly,
	}
}

// RenderFile executes the file template
func RenderFile(data *FileData) (string, error) {
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

var (
	bodyKinds = map[descriptor.BodyKind]string{
		descriptor.BodyNone: "BodyNone",
		descriptor.BodyRaw:  "BodyRaw",
		descriptor.BodyForm: "BodyForm",
		descriptor.BodyJSON: "BodyJSON",
	}
	shapeKinds = map[descriptor.ShapeKind]string{
		descriptor.ShapeUnit:       "ShapeUnit",
		descriptor.ShapeBytes:      "ShapeBytes",
		descriptor.ShapeText:       "ShapeText",
		descriptor.ShapeJSON:       "ShapeJSON",
		descriptor.ShapeJSONResult: "ShapeJSONResult",
	}
)

// DescriptorLiteral renders desc as a Go composite literal. Locations keep
// only the base file name.
func DescriptorLiteral(desc *descriptor.InterfaceDescriptor, pkg string) string {
	var b strings.Builder
	q := strconv.Quote

	fmt.Fprintf(&b, "&%s.InterfaceDescriptor{\n", pkg)
	fmt.Fprintf(&b, "\tName: %s,\n", q(desc.Name))
	fmt.Fprintf(&b, "\tKind: %s.%s,\n", pkg, desc.Kind)
	fmt.Fprintf(&b, "\tMethods: []*%s.MethodDescriptor{\n", pkg)
	for _, m := range desc.Methods {
		b.WriteString("\t\t{\n")
		fmt.Fprintf(&b, "\t\t\tName: %s,\n", q(m.Name))
		fmt.Fprintf(&b, "\t\t\tVerb: %s,\n", q(m.Verb))
		fmt.Fprintf(&b, "\t\t\tPath: %s,\n", q(m.Path))
		if len(m.Headers) > 0 {
			fmt.Fprintf(&b, "\t\t\tHeaders: []%s.HeaderTemplate{\n", pkg)
			for _, h := range m.Headers {
				fmt.Fprintf(&b, "\t\t\t\t{Name: %s, Value: %s},\n", q(h.Name), q(h.Value))
			}
			b.WriteString("\t\t\t},\n")
		}
		if m.Body.Kind != descriptor.BodyNone {
			fmt.Fprintf(&b, "\t\t\tBody: %s.BodyRole{Kind: %s.%s, Param: %s},\n", pkg, pkg, bodyKinds[m.Body.Kind], q(m.Body.Param))
		}
		if m.Query != "" {
			fmt.Fprintf(&b, "\t\t\tQuery: %s,\n", q(m.Query))
		}
		if m.Async {
			b.WriteString("\t\t\tAsync: true,\n")
		}
		fmt.Fprintf(&b, "\t\t\tShape: %s.ResponseShape{Kind: %s.%s", pkg, pkg, shapeKinds[m.Shape.Kind])
		if m.Shape.Wrapped {
			b.WriteString(", Wrapped: true")
		}
		b.WriteString("},\n")
		if len(m.Params) > 0 {
			quoted := make([]string, len(m.Params))
			for i, p := range m.Params {
				quoted[i] = q(p)
			}
			fmt.Fprintf(&b, "\t\t\tParams: []string{%s},\n", strings.Join(quoted, ", "))
		}
		fmt.Fprintf(&b, "\t\t\tLocation: %s,\n", locationLiteral(m.Location, pkg))
		b.WriteString("\t\t},\n")
	}
	b.WriteString("\t},\n")
	fmt.Fprintf(&b, "\tLocation: %s,\n", locationLiteral(desc.Location, pkg))
	b.WriteString("}")
	return b.String()
}

func locationLiteral(loc descriptor.Location, pkg string) string {
	return fmt.Sprintf("%s.Location{File: %s, Line: %d, Column: %d}",
		pkg, strconv.Quote(filepath.Base(loc.File)), loc.Line, loc.Column)
}

// pickReceiver returns a receiver name that no parameter shadows
func pickReceiver(methods []models.MethodSignature, reserved ...string) string {
	taken := make(map[string]bool)
	for _, r := range reserved {
		taken[r] = true
	}
	for _, m := range methods {
		for _, p := range m.Params {
			taken[p.Name] = true
		}
	}
	for _, candidate := range []string{"c", "cl", "client", "self"} {
		if !taken[candidate] {
			return candidate
		}
	}
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("c%d", i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func freeName(base string, params []models.Param) string {
	name := base
	for i := 0; ; i++ {
		clash := false
		for _, p := range params {
			if p.Name == name {
				clash = true
				break
			}
		}
		if !clash {
			return name
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}

func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// exportedName prefixes name, keeping the visibility of the interface
func exportedName(prefix, name string, exported bool) string {
	if prefix == "" {
		if exported {
			return name
		}
		return lowerFirst(name)
	}
	if exported {
		return prefix + name
	}
	return strings.ToLower(prefix) + upperFirst(name)
}
