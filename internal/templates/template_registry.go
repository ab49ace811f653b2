package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerClientTemplates()
	registry.registerMethodTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["file"] = `// Code generated by pretend. DO NOT EDIT.

package {{.PackageName}}

{{.Imports}}
{{range .Clients}}{{template "client" .}}{{end}}`
}

func (tr *TemplateRegistry) registerClientTemplates() {
	tr.templates["client"] = `
var {{.DescriptorVar}} = {{.Descriptor}}

// {{.DescriptorFunc}} returns the validated descriptor of {{.Name}}.
func {{.DescriptorFunc}}() *{{.DescriptorPkg}}.InterfaceDescriptor {
	return {{.DescriptorVar}}
}

type {{.StructName}} struct {
	binding *{{.Pretend}}.Binding
}

// {{.Constructor}} binds p to {{.Name}}. The transport of p must match the
// {{.KindName}} client kind.
{{- if .Confined}}
//
// Over a shared transport the client owns a goroutine. Stop it by
// asserting the client to io.Closer and calling Close.
{{- end}}
func {{.Constructor}}(p *{{.Pretend}}.Pretend) ({{.Name}}, error) {
	b, err := p.Bind({{.DescriptorVar}})
	if err != nil {
		return nil, err
	}
	return &{{.StructName}}{binding: b}, nil
}
{{if .HasClose}}
// Close releases the event loop of a thread-confined binding.
func ({{.Receiver}} *{{.StructName}}) Close() error {
	return {{.Receiver}}.binding.Close()
}
{{end}}{{range .Methods}}{{template "method" .}}{{end}}`
}

func (tr *TemplateRegistry) registerMethodTemplates() {
	tr.templates["method"] = `
func ({{.Receiver}} *{{.StructName}}) {{.Name}}({{.Params}}) {{.Results}} {
{{- if .ErrorOnly}}
	if _, err := {{.Call}}; err != nil {
		return err
	}
	return nil
{{- else}}
	return {{.Call}}
{{- end}}
}
`
}
