// Package openapi describes pretend clients as an OpenAPI 3 document.
//
// Every client method becomes one operation. Path placeholders become path
// parameters, templated headers become header parameters, and the query
// and body roles map to a query object and a request body. The response
// shape decides the declared media type.
package openapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/toyz/pretend/pkg/pretend"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// Format is the serialization of an exported document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const (
	mimeJSON   = "application/json"
	mimeForm   = "application/x-www-form-urlencoded"
	mimeText   = "text/plain"
	mimeBinary = "application/octet-stream"
)

// ParseFormat validates a format name; the empty string means YAML
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown OpenAPI format %q (use yaml or json)", name)
	}
}

// Options describe the document being built
type Options struct {
	Title     string
	Version   string
	ServerURL string
}

// Build creates and validates a document for the given clients
func Build(opts Options, clients []*descriptor.InterfaceDescriptor) (*openapi3.T, error) {
	if opts.Title == "" {
		opts.Title = "pretend clients"
	}
	if opts.Version == "" {
		opts.Version = "0.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(),
	}
	if opts.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: opts.ServerURL}}
	}

	for _, client := range clients {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: client.Name})
		for _, m := range client.Methods {
			if err := addOperation(doc, client.Name, m); err != nil {
				return nil, err
			}
		}
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

func addOperation(doc *openapi3.T, client string, m *descriptor.MethodDescriptor) error {
	path, query, _ := strings.Cut(m.Path, "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	item := doc.Paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
		doc.Paths.Set(path, item)
	}
	if existing := item.GetOperation(m.Verb); existing != nil {
		return fmt.Errorf("%s.%s: %s %s is already declared by %s", client, m.Name, m.Verb, path, existing.OperationID)
	}

	op := openapi3.NewOperation()
	op.OperationID = client + "." + m.Name
	op.Tags = []string{client}
	op.Summary = fmt.Sprintf("%s %s", m.Verb, m.Path)
	op.Parameters = parameters(m, path, query)
	op.RequestBody = requestBody(m.Body)
	op.Responses = responses(m.Shape)

	item.SetOperation(m.Verb, op)
	return nil
}

func parameters(m *descriptor.MethodDescriptor, path, query string) openapi3.Parameters {
	var params openapi3.Parameters

	for _, name := range pretend.TemplateParams(path) {
		params = append(params, &openapi3.ParameterRef{
			Value: openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()),
		})
	}
	for _, name := range pretend.TemplateParams(query) {
		p := openapi3.NewQueryParameter(name).WithSchema(openapi3.NewStringSchema())
		p.Required = true
		params = append(params, &openapi3.ParameterRef{Value: p})
	}

	for _, h := range m.Headers {
		if len(pretend.TemplateParams(h.Value)) == 0 || len(pretend.TemplateParams(h.Name)) > 0 {
			continue
		}
		p := openapi3.NewHeaderParameter(h.Name).WithSchema(openapi3.NewStringSchema())
		p.Required = true
		p.Description = "Rendered from " + h.Value
		params = append(params, &openapi3.ParameterRef{Value: p})
	}

	if m.Query != "" {
		explode := true
		p := openapi3.NewQueryParameter(m.Query).WithSchema(openapi3.NewObjectSchema())
		p.Style = openapi3.SerializationForm
		p.Explode = &explode
		params = append(params, &openapi3.ParameterRef{Value: p})
	}
	return params
}

func requestBody(role descriptor.BodyRole) *openapi3.RequestBodyRef {
	var content openapi3.Content
	switch role.Kind {
	case descriptor.BodyRaw:
		content = openapi3.NewContentWithSchema(binarySchema(), []string{mimeBinary})
	case descriptor.BodyForm:
		content = openapi3.NewContentWithSchema(openapi3.NewObjectSchema(), []string{mimeForm})
	case descriptor.BodyJSON:
		content = openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema())
	default:
		return nil
	}

	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithContent(content),
	}
}

func responses(shape descriptor.ResponseShape) *openapi3.Responses {
	success := openapi3.NewResponse().WithDescription("Success")
	switch shape.Kind {
	case descriptor.ShapeBytes:
		success.WithContent(openapi3.NewContentWithSchema(binarySchema(), []string{mimeBinary}))
	case descriptor.ShapeText:
		success.WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{mimeText}))
	case descriptor.ShapeJSON, descriptor.ShapeJSONResult:
		success.WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema()))
	}

	opts := []openapi3.NewResponsesOption{
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: success}),
	}
	if shape.Kind == descriptor.ShapeJSONResult {
		failure := openapi3.NewResponse().
			WithDescription("Error payload").
			WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema()))
		opts = append(opts, openapi3.WithName("default", failure))
	}
	return openapi3.NewResponses(opts...)
}

func binarySchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithFormat("binary")
}

// Marshal serializes doc in the requested format
func Marshal(doc *openapi3.T, format Format) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert OpenAPI document: %w", err)
	}
	blockStyle(&node)

	var out strings.Builder
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(out.String()), nil
}

// blockStyle drops the flow and quoting styles JSON input leaves on every
// node; the encoder still quotes strings that would read as other types
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style = 0
	case yaml.ScalarNode:
		if n.Tag == "!!str" && !strings.Contains(n.Value, "\n") {
			n.Style = 0
		}
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
