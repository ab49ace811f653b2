package annotations

import (
	"fmt"
	"strings"

	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// Prefix starts every annotation comment
const Prefix = "//pretend::"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ClientAnnotation AnnotationType = iota
	RequestAnnotation
	HeaderAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ClientAnnotation:
		return "client"
	case RequestAnnotation:
		return "request"
	case HeaderAnnotation:
		return "header"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "client":
		return ClientAnnotation, nil
	case "request":
		return RequestAnnotation, nil
	case "header":
		return HeaderAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// Descriptor converts the location for diagnostics
func (l SourceLocation) Descriptor() descriptor.Location {
	return descriptor.Location{File: l.File, Line: l.Line, Column: l.Column}
}

// ParsedAnnotation is one annotation comment split into its arguments.
// Positional arguments are stored under the names given by the schema;
// named arguments keep their own key. Keys records insertion order.
type ParsedAnnotation struct {
	Type       AnnotationType
	Parameters map[string]string
	Keys       []string
	Flags      []string
	Location   SourceLocation
	Raw        string
}

func newParsedAnnotation(t AnnotationType, raw string, loc SourceLocation) *ParsedAnnotation {
	return &ParsedAnnotation{
		Type:       t,
		Parameters: make(map[string]string),
		Location:   loc,
		Raw:        raw,
	}
}

func (p *ParsedAnnotation) set(key, value string) {
	if _, exists := p.Parameters[key]; !exists {
		p.Keys = append(p.Keys, key)
	}
	p.Parameters[key] = value
}

// GetString returns a parameter or the first default
func (p *ParsedAnnotation) GetString(name string, defaultValue ...string) string {
	if v, ok := p.Parameters[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasParameter checks if a parameter was given
func (p *ParsedAnnotation) HasParameter(name string) bool {
	_, ok := p.Parameters[name]
	return ok
}

// HasFlag checks if a flag was given
func (p *ParsedAnnotation) HasFlag(name string) bool {
	for _, f := range p.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// ToRaw converts a request or header annotation into the form consumed by
// the descriptor parser. Client annotations have no raw form.
func (p *ParsedAnnotation) ToRaw() descriptor.RawAnnotation {
	raw := descriptor.RawAnnotation{
		Args:     make(map[string]string, len(p.Parameters)),
		Location: p.Location.Descriptor(),
	}
	switch p.Type {
	case RequestAnnotation:
		raw.Kind = descriptor.AnnotationRequest
	case HeaderAnnotation:
		raw.Kind = descriptor.AnnotationHeader
	default:
		raw.Kind = descriptor.AnnotationInvalid
		raw.Problem = fmt.Sprintf("`%s` is not a method annotation", p.Type)
	}
	for _, k := range p.Keys {
		raw.Keys = append(raw.Keys, k)
		raw.Args[k] = p.Parameters[k]
	}
	for _, f := range p.Flags {
		raw.Keys = append(raw.Keys, f)
		raw.Args[f] = ""
	}
	return raw
}

// IsAnnotation reports whether a comment line is a pretend annotation.
// Whitespace between the slashes and the prefix is tolerated.
func IsAnnotation(comment string) bool {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(comment[2:]), "pretend::")
}
