package descriptor

// The Raw* types are the language-level input of the parser. They are filled
// either by the source scanner of the pretend generator or by the Builder, and
// carry no validation of their own.

// ReceiverKind describes what a method is bound to.
type ReceiverKind int

const (
	// ReceiverInterface is the implicit, immutable receiver of an interface method.
	ReceiverInterface ReceiverKind = iota
	// ReceiverPointer is a concrete method on a pointer (mutable) receiver.
	ReceiverPointer
	// ReceiverValue is a concrete method on a value (owned) receiver.
	ReceiverValue
	// ReceiverNone is a plain function.
	ReceiverNone
)

func (r ReceiverKind) String() string {
	switch r {
	case ReceiverInterface:
		return "interface"
	case ReceiverPointer:
		return "pointer"
	case ReceiverValue:
		return "value"
	default:
		return "none"
	}
}

// TypeKind classifies a parameter or result type.
type TypeKind int

const (
	TypeOther TypeKind = iota
	TypeError
	TypeBytes
	TypeString
	TypeUnit
	TypeContext
	TypeResponse
	TypeJSONResult
)

// TypeRef is a classified reference to a type as written in the source.
type TypeRef struct {
	Kind    TypeKind
	Expr    string   // source text, e.g. "pretend.Response[string]"
	Pointer bool     // written as *T
	Elem    *TypeRef // inner type of Response[T]
}

// AnnotationKind is the kind of a method annotation.
type AnnotationKind int

const (
	AnnotationInvalid AnnotationKind = iota
	AnnotationRequest
	AnnotationHeader
)

// RawAnnotation is one annotation attached to a method. Keys preserves the
// order in which arguments were written.
type RawAnnotation struct {
	Kind     AnnotationKind
	Args     map[string]string
	Keys     []string
	Problem  string // set for AnnotationInvalid
	Location Location
}

// Get returns an argument and whether it was present.
func (a RawAnnotation) Get(key string) (string, bool) {
	v, ok := a.Args[key]
	return v, ok
}

// RawParam is a method parameter.
type RawParam struct {
	Name     string
	Type     TypeRef
	Location Location
}

// RawMethod is a method as declared, before validation.
type RawMethod struct {
	Name        string
	Receiver    ReceiverKind
	TypeParams  []string
	Params      []RawParam
	Results     []TypeRef
	Annotations []RawAnnotation
	Location    Location
}

// RawItem is an interface element that is not a method, such as an embedded
// interface or a type-set term.
type RawItem struct {
	Description string
	Location    Location
}

// RawInterface is an annotated interface as declared, before validation.
type RawInterface struct {
	Name       string
	Local      bool
	TypeParams []string
	Methods    []RawMethod
	Items      []RawItem
	Location   Location
}
