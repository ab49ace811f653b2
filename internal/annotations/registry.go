package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// AnnotationSchema describes how the arguments of an annotation are laid out.
// Positional arguments are assigned to Positional in order; with Rest set the
// last name absorbs every remaining positional word, joined by spaces.
// Flags lists the bare -Name switches the annotation accepts. Annotations
// without flags keep unknown arguments so later stages can report them.
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Positional  []string
	Rest        bool
	Flags       []string
	Examples    []string
}

// AcceptsFlag reports whether name is one of the schema's flags
func (s AnnotationSchema) AcceptsFlag(name string) bool {
	for _, f := range s.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// AnnotationRegistry defines the interface for managing annotation schemas
type AnnotationRegistry interface {
	// Register a new annotation type with its schema
	Register(annotationType AnnotationType, schema AnnotationSchema) error

	// GetSchema retrieves the schema for an annotation type
	GetSchema(annotationType AnnotationType) (AnnotationSchema, error)

	// ListTypes returns all registered annotation types
	ListTypes() []AnnotationType

	// IsRegistered checks if an annotation type is registered
	IsRegistered(annotationType AnnotationType) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[AnnotationType]AnnotationSchema
}

// NewRegistry creates a new annotation registry
func NewRegistry() AnnotationRegistry {
	return &registry{
		schemas: make(map[AnnotationType]AnnotationSchema),
	}
}

var (
	defaultRegistry     AnnotationRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global annotation registry with the built-in
// schemas registered
func DefaultRegistry() AnnotationRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

// Register adds a new annotation type with its schema to the registry
func (r *registry) Register(annotationType AnnotationType, schema AnnotationSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Type != annotationType {
		return &RegistrationError{
			Msg: fmt.Sprintf("schema type %s does not match annotation type %s",
				schema.Type.String(), annotationType.String()),
		}
	}
	if _, exists := r.schemas[annotationType]; exists {
		return &RegistrationError{
			Msg:  fmt.Sprintf("annotation type %s is already registered", annotationType.String()),
			Hint: "Use a fresh registry from NewRegistry",
		}
	}
	if err := validateSchema(schema); err != nil {
		return err
	}

	r.schemas[annotationType] = schema
	return nil
}

// GetSchema retrieves the schema for an annotation type
func (r *registry) GetSchema(annotationType AnnotationType) (AnnotationSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[annotationType]
	if !exists {
		return AnnotationSchema{}, fmt.Errorf("annotation type %s is not registered", annotationType.String())
	}

	return schema, nil
}

// ListTypes returns all registered annotation types
func (r *registry) ListTypes() []AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]AnnotationType, 0, len(r.schemas))
	for annotationType := range r.schemas {
		types = append(types, annotationType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// IsRegistered checks if an annotation type is registered
func (r *registry) IsRegistered(annotationType AnnotationType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[annotationType]
	return exists
}

func validateSchema(schema AnnotationSchema) error {
	seen := make(map[string]bool)
	for _, name := range append(append([]string{}, schema.Positional...), schema.Flags...) {
		if name == "" {
			return &RegistrationError{Msg: "parameter name cannot be empty"}
		}
		if seen[name] {
			return &RegistrationError{Msg: fmt.Sprintf("parameter %s is declared twice", name)}
		}
		seen[name] = true
	}
	if schema.Rest && len(schema.Positional) == 0 {
		return &RegistrationError{Msg: "Rest requires at least one positional parameter"}
	}
	return nil
}
