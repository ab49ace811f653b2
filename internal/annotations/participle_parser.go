package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParticipleParser parses pretend annotations using alecthomas/participle
type ParticipleParser struct {
	parser   *participle.Parser[Arguments]
	registry AnnotationRegistry
}

// Arguments is everything written after //pretend::<type>
type Arguments struct {
	Items []*Argument `parser:"@@*"`
}

// Argument is a named argument, a flag or a positional value
type Argument struct {
	Named *NamedArgument `parser:"  @@"`
	Flag  *string        `parser:"| @Flag"`
	Value *string        `parser:"| @(String | Word)"`
}

// NamedArgument is -key=value; the value may be empty
type NamedArgument struct {
	Key   string  `parser:"@Named"`
	Value *string `parser:"@(String | Word)?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Named", Pattern: `-[A-Za-z_][A-Za-z0-9_]*=`},
	{Name: "Flag", Pattern: `-[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Word", Pattern: `[^\s"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// NewParticipleParser creates a new parser backed by the given registry
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	parser := participle.MustBuild[Arguments](
		participle.Lexer(annotationLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	return &ParticipleParser{
		parser:   parser,
		registry: registry,
	}
}

// NewParser creates a parser using the default registry
func NewParser() *ParticipleParser {
	return NewParticipleParser(DefaultRegistry())
}

// ParseAnnotation parses one annotation comment
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	typeName, remaining, err := parseBasicStructure(comment)
	if err != nil {
		return nil, NewSyntaxErrorWithContext(err.Error(), location, comment)
	}

	annotationType, err := ParseAnnotationType(typeName)
	if err != nil {
		return nil, NewSyntaxErrorWithContext(err.Error(), location, comment)
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, NewSyntaxErrorWithContext(err.Error(), location, comment)
	}

	args, err := p.parser.ParseString(location.File, remaining)
	if err != nil {
		msg := err.Error()
		if perr, ok := err.(participle.Error); ok {
			msg = perr.Message()
		}
		return nil, NewSyntaxErrorWithContext(msg, location, comment)
	}

	parsed := newParsedAnnotation(annotationType, strings.TrimSpace(comment), location)
	if err := apply(parsed, schema, args); err != nil {
		return nil, err
	}
	return parsed, nil
}

// parseBasicStructure splits off the //pretend:: prefix and the annotation type
func parseBasicStructure(comment string) (annotationType, remaining string, err error) {
	comment = strings.TrimSpace(comment)

	if !strings.HasPrefix(comment, "//") {
		return "", "", fmt.Errorf("annotation must start with '//'")
	}
	content := strings.TrimSpace(strings.TrimPrefix(comment, "//"))

	if !strings.HasPrefix(content, "pretend::") {
		return "", "", fmt.Errorf("annotation must contain 'pretend::' prefix")
	}
	content = strings.TrimPrefix(content, "pretend::")

	parts := strings.Fields(content)
	if len(parts) == 0 || !strings.HasPrefix(content, parts[0]) {
		return "", "", fmt.Errorf("missing annotation type")
	}

	annotationType = parts[0]
	remaining = strings.TrimSpace(strings.TrimPrefix(content, annotationType))
	return annotationType, remaining, nil
}

// apply lays the parsed arguments out according to the schema
func apply(parsed *ParsedAnnotation, schema AnnotationSchema, args *Arguments) error {
	var positional []string

	for _, item := range args.Items {
		switch {
		case item.Named != nil:
			key := strings.TrimSuffix(strings.TrimPrefix(item.Named.Key, "-"), "=")
			if parsed.HasParameter(key) {
				return NewSchemaErrorWithContext(fmt.Sprintf("argument %q is given twice", key), parsed.Location, schema)
			}
			value := ""
			if item.Named.Value != nil {
				value = *item.Named.Value
			}
			parsed.set(key, value)
		case item.Flag != nil:
			flag := strings.TrimPrefix(*item.Flag, "-")
			if parsed.HasFlag(flag) {
				return NewSchemaErrorWithContext(fmt.Sprintf("flag %q is given twice", flag), parsed.Location, schema)
			}
			parsed.Flags = append(parsed.Flags, flag)
		case item.Value != nil:
			positional = append(positional, *item.Value)
		}
	}

	if err := handlePositionalParameters(parsed, schema, positional); err != nil {
		return err
	}
	return validateAgainstSchema(parsed, schema)
}

// handlePositionalParameters assigns positional values to the schema's names.
// Values beyond the schema are kept as argN so later stages reject them.
func handlePositionalParameters(parsed *ParsedAnnotation, schema AnnotationSchema, positional []string) error {
	names := schema.Positional
	for i, value := range positional {
		var key string
		switch {
		case i < len(names)-1 || (i == len(names)-1 && !schema.Rest):
			key = names[i]
		case schema.Rest && i >= len(names)-1:
			key = names[len(names)-1]
			value = strings.Join(positional[i:], " ")
		default:
			key = fmt.Sprintf("arg%d", i+1)
		}

		if parsed.HasParameter(key) {
			return NewSchemaErrorWithContext(fmt.Sprintf("argument %q is given twice", key), parsed.Location, schema)
		}
		parsed.set(key, value)

		if schema.Rest && i >= len(names)-1 {
			break
		}
	}
	return nil
}

// validateAgainstSchema rejects arguments a flag-only annotation cannot carry.
// Request and header arguments are checked when descriptors are built.
func validateAgainstSchema(parsed *ParsedAnnotation, schema AnnotationSchema) error {
	if len(schema.Flags) == 0 {
		return nil
	}
	for _, flag := range parsed.Flags {
		if !schema.AcceptsFlag(flag) {
			return NewSchemaErrorWithContext(
				fmt.Sprintf("unknown flag -%s for %s annotation", flag, schema.Type), parsed.Location, schema)
		}
	}
	if len(schema.Positional) == 0 && len(parsed.Keys) > 0 {
		return NewSchemaErrorWithContext(
			fmt.Sprintf("%s annotation takes no arguments, got %q", schema.Type, parsed.Keys[0]), parsed.Location, schema)
	}
	return nil
}
