package annotations

// Built-in annotation schemas

// ClientAnnotationSchema defines the schema for //pretend::client annotations
var ClientAnnotationSchema = AnnotationSchema{
	Type:        ClientAnnotation,
	Description: "Marks an interface as an HTTP client to implement",
	Flags:       []string{"Local"},
	Examples: []string{
		"//pretend::client",
		"//pretend::client -Local",
	},
}

// RequestAnnotationSchema defines the schema for //pretend::request annotations
var RequestAnnotationSchema = AnnotationSchema{
	Type:        RequestAnnotation,
	Description: "Binds a method to an HTTP verb and path template",
	Positional:  []string{"method", "path"},
	Examples: []string{
		"//pretend::request GET /users/{id}",
		`//pretend::request -method=POST -path="/users"`,
	},
}

// HeaderAnnotationSchema defines the schema for //pretend::header annotations
var HeaderAnnotationSchema = AnnotationSchema{
	Type:        HeaderAnnotation,
	Description: "Adds a header template to the request",
	Positional:  []string{"name", "value"},
	Rest:        true,
	Examples: []string{
		"//pretend::header Authorization Bearer {token}",
		`//pretend::header -name=X-Trace -value="{trace}"`,
	},
}

// BuiltinSchemas lists the schemas registered by RegisterBuiltinSchemas
var BuiltinSchemas = []AnnotationSchema{
	ClientAnnotationSchema,
	RequestAnnotationSchema,
	HeaderAnnotationSchema,
}

// RegisterBuiltinSchemas registers all built-in annotation schemas
func RegisterBuiltinSchemas(r AnnotationRegistry) error {
	for _, schema := range BuiltinSchemas {
		if err := r.Register(schema.Type, schema); err != nil {
			return err
		}
	}
	return nil
}
