package descriptor

import "strings"

const (
	msgMissingRequest     = "method must have the `pretend::request` annotation"
	msgTooManyRequests    = "method must have the `pretend::request` annotation only once"
	msgTooManyRequestsAt  = "`pretend::request` annotation defined here"
	msgInvalidRequest     = "`pretend::request` annotation must only have `method` and `path`"
	msgInvalidHeader      = "`pretend::header` annotation must only have `name` and `value`"
	msgTooManyBodies      = "method can only have at most one body parameter"
	msgTooManyBodiesAt    = "body parameter defined here"
	msgUnsupportedGeneric = "generics are not supported"
	msgUnsupportedItem    = "only methods are supported"
	msgInconsistentAsync  = "unable to deduce if this interface is async or not; either all methods or none must take a context.Context first"
	msgAsyncAt            = "async method defined here"
	msgSyncAt             = "non-async method defined here"
	msgLocalOnBlocking    = "`-Local` is not supported for blocking implementation"
	msgNoMethod           = "please declare at least one method for this interface"
)

// Parameter names that select a role.
const (
	ParamBody  = "body"
	ParamForm  = "form"
	ParamJSON  = "json"
	ParamQuery = "query"
)

var verbs = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {}, "HEAD": {},
	"OPTIONS": {}, "CONNECT": {}, "PATCH": {}, "TRACE": {},
}

// IsVerb reports whether the token is a supported HTTP method.
func IsVerb(token string) bool {
	_, ok := verbs[token]
	return ok
}

// ParseInterface validates a raw interface and every one of its methods. All
// problems are gathered into a single *Error; on success the descriptor is
// complete and immutable.
func ParseInterface(raw RawInterface) (*InterfaceDescriptor, error) {
	var diags Diagnostics

	if len(raw.TypeParams) > 0 {
		diags = append(diags, newDiagnostic(CodeUnsupportedGenerics, raw.Location,
			"%s: type parameters [%s]", msgUnsupportedGeneric, strings.Join(raw.TypeParams, ", ")))
	}
	for _, item := range raw.Items {
		d := newDiagnostic(CodeUnsupportedItem, item.Location, "%s", msgUnsupportedItem)
		if item.Description != "" {
			d.Message += ": " + item.Description
		}
		diags = append(diags, d)
	}

	methods := make([]*MethodDescriptor, 0, len(raw.Methods))
	for _, rm := range raw.Methods {
		m, mdiags := ParseMethod(rm)
		diags = append(diags, mdiags...)
		if m != nil {
			methods = append(methods, m)
		}
	}

	var kind ClientKind
	if len(raw.Methods) == 0 {
		diags = append(diags, newDiagnostic(CodeNoMethod, raw.Location, "%s", msgNoMethod))
	} else if len(diags) == 0 {
		k, d := ResolveClientKind(raw.Location, methods, raw.Local)
		if d != nil {
			diags = append(diags, d)
		}
		kind = k
	} else {
		// Kind resolution still runs on what parsed so that a mixed interface
		// reports everything at once.
		if _, d := ResolveClientKind(raw.Location, asyncProbe(raw.Methods), raw.Local); d != nil {
			diags = append(diags, d)
		}
	}

	if len(diags) > 0 {
		return nil, &Error{Interface: raw.Name, Diagnostics: diags}
	}

	return &InterfaceDescriptor{
		Name:     raw.Name,
		Kind:     kind,
		Methods:  methods,
		Location: raw.Location,
	}, nil
}

// asyncProbe builds the minimal descriptors kind resolution needs from
// methods that may not have parsed.
func asyncProbe(raws []RawMethod) []*MethodDescriptor {
	out := make([]*MethodDescriptor, len(raws))
	for i, rm := range raws {
		out[i] = &MethodDescriptor{Name: rm.Name, Async: isAsync(rm), Location: rm.Location}
	}
	return out
}

// ParseMethod validates a single raw method. Either a descriptor or at least
// one diagnostic is returned, never both.
func ParseMethod(raw RawMethod) (*MethodDescriptor, Diagnostics) {
	var diags Diagnostics

	if len(raw.TypeParams) > 0 {
		diags = append(diags, newDiagnostic(CodeUnsupportedGenerics, raw.Location,
			"%s: method %s declares [%s]", msgUnsupportedGeneric, raw.Name, strings.Join(raw.TypeParams, ", ")))
	}
	if raw.Receiver != ReceiverInterface {
		diags = append(diags, newDiagnostic(CodeUnsupportedReceiver, raw.Location,
			"method %s must be declared on a pretend::client interface, found %s receiver", raw.Name, raw.Receiver))
	}

	for _, a := range raw.Annotations {
		if a.Kind == AnnotationInvalid {
			diags = append(diags, newDiagnostic(CodeInvalidAnnotation, a.Location, "%s", a.Problem))
		}
	}

	verb, path, d := parseRequest(raw)
	if d != nil {
		diags = append(diags, d)
	}

	headers, hdiags := parseHeaders(raw)
	diags = append(diags, hdiags...)

	params, async, pdiags := parseParams(raw)
	diags = append(diags, pdiags...)
	diags = append(diags, checkPlaceholders(raw, params)...)

	body, d := parseBody(raw)
	if d != nil {
		diags = append(diags, d)
	}

	shape, d := parseShape(raw)
	if d != nil {
		diags = append(diags, d)
	}

	if len(diags) > 0 {
		return nil, diags
	}

	m := &MethodDescriptor{
		Name:     raw.Name,
		Verb:     verb,
		Path:     path,
		Headers:  headers,
		Body:     body,
		Async:    async,
		Shape:    shape,
		Params:   params,
		Location: raw.Location,
	}
	for _, p := range params {
		if p == ParamQuery {
			m.Query = p
		}
	}
	return m, nil
}

func parseRequest(raw RawMethod) (string, string, *Diagnostic) {
	var requests []RawAnnotation
	for _, a := range raw.Annotations {
		if a.Kind == AnnotationRequest {
			requests = append(requests, a)
		}
	}

	switch len(requests) {
	case 0:
		return "", "", newDiagnostic(CodeMissingRequest, raw.Location, "%s", msgMissingRequest)
	case 1:
	default:
		d := newDiagnostic(CodeTooManyRequests, raw.Location, "%s", msgTooManyRequests)
		for _, r := range requests {
			d.note(r.Location, msgTooManyRequestsAt)
		}
		return "", "", d
	}

	req := requests[0]
	if !onlyKeys(req, "method", "path") {
		return "", "", newDiagnostic(CodeInvalidRequest, req.Location, "%s", msgInvalidRequest)
	}

	verb, _ := req.Get("method")
	path, _ := req.Get("path")
	if !IsVerb(verb) {
		return "", "", newDiagnostic(CodeInvalidRequest, req.Location,
			"`pretend::request` has an unsupported method %q", verb)
	}
	return verb, path, nil
}

func parseHeaders(raw RawMethod) ([]HeaderTemplate, Diagnostics) {
	var (
		headers []HeaderTemplate
		diags   Diagnostics
	)
	for _, a := range raw.Annotations {
		if a.Kind != AnnotationHeader {
			continue
		}
		if !onlyKeys(a, "name", "value") {
			diags = append(diags, newDiagnostic(CodeInvalidHeader, a.Location, "%s", msgInvalidHeader))
			continue
		}
		name, _ := a.Get("name")
		value, _ := a.Get("value")
		headers = append(headers, HeaderTemplate{Name: name, Value: value})
	}
	return headers, diags
}

// checkPlaceholders reports every placeholder of the request path and of the
// header templates that names no parameter of the method.
func checkPlaceholders(raw RawMethod, params []string) Diagnostics {
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p] = true
	}

	var diags Diagnostics
	check := func(a RawAnnotation, what, template string) {
		for _, name := range TemplateParams(template) {
			if !known[name] {
				diags = append(diags, newDiagnostic(CodeMissingTemplateArgument, a.Location,
					"%s %q uses {%s}, which is not a parameter of %s", what, template, name, raw.Name))
			}
		}
	}

	for _, a := range raw.Annotations {
		switch a.Kind {
		case AnnotationRequest:
			if path, ok := a.Get("path"); ok {
				check(a, "path", path)
			}
		case AnnotationHeader:
			if !onlyKeys(a, "name", "value") {
				continue
			}
			name, _ := a.Get("name")
			value, _ := a.Get("value")
			check(a, "header name", name)
			check(a, "header value", value)
		}
	}
	return diags
}

// onlyKeys reports whether the annotation carries exactly the given keys.
func onlyKeys(a RawAnnotation, keys ...string) bool {
	if len(a.Args) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := a.Args[k]; !ok {
			return false
		}
	}
	return true
}

func isAsync(raw RawMethod) bool {
	return len(raw.Params) > 0 && raw.Params[0].Type.Kind == TypeContext
}

func parseParams(raw RawMethod) ([]string, bool, Diagnostics) {
	var diags Diagnostics
	async := isAsync(raw)

	params := raw.Params
	if async {
		params = params[1:]
	}

	names := make([]string, 0, len(params))
	for i, p := range params {
		if p.Name == "" || p.Name == "_" {
			diags = append(diags, newDiagnostic(CodeUnnamedParameter, p.Location,
				"parameter %d of %s must be named", i+1, raw.Name))
			continue
		}
		names = append(names, p.Name)
	}
	return names, async, diags
}

func parseBody(raw RawMethod) (BodyRole, *Diagnostic) {
	var bodies []RawParam
	for _, p := range raw.Params {
		switch p.Name {
		case ParamBody, ParamForm, ParamJSON:
			bodies = append(bodies, p)
		}
	}

	switch len(bodies) {
	case 0:
		return BodyRole{Kind: BodyNone}, nil
	case 1:
		p := bodies[0]
		switch p.Name {
		case ParamBody:
			return BodyRole{Kind: BodyRaw, Param: p.Name}, nil
		case ParamForm:
			return BodyRole{Kind: BodyForm, Param: p.Name}, nil
		default:
			return BodyRole{Kind: BodyJSON, Param: p.Name}, nil
		}
	default:
		d := newDiagnostic(CodeTooManyBodies, raw.Location, "%s", msgTooManyBodies)
		for _, p := range bodies {
			d.note(p.Location, msgTooManyBodiesAt)
		}
		return BodyRole{}, d
	}
}

func parseShape(raw RawMethod) (ResponseShape, *Diagnostic) {
	unsupported := func(format string, args ...any) (ResponseShape, *Diagnostic) {
		return ResponseShape{}, newDiagnostic(CodeUnsupportedReturn, raw.Location, format, args...)
	}

	results := raw.Results
	switch {
	case len(results) == 1 && results[0].Kind == TypeError:
		return ResponseShape{Kind: ShapeUnit}, nil
	case len(results) == 2 && results[1].Kind == TypeError:
	default:
		return unsupported("method %s must return error or (T, error)", raw.Name)
	}

	result := results[0]
	if result.Kind == TypeResponse {
		if result.Pointer {
			return unsupported("method %s must return Response by value, not %s", raw.Name, result.Expr)
		}
		if result.Elem == nil {
			return unsupported("method %s returns Response without a body type", raw.Name)
		}
		if result.Elem.Kind == TypeResponse {
			return unsupported("method %s returns a nested Response", raw.Name)
		}
		kind, d := shapeKind(raw, *result.Elem)
		if d != nil {
			return ResponseShape{}, d
		}
		return ResponseShape{Kind: kind, Wrapped: true}, nil
	}

	kind, d := shapeKind(raw, result)
	if d != nil {
		return ResponseShape{}, d
	}
	return ResponseShape{Kind: kind}, nil
}

func shapeKind(raw RawMethod, t TypeRef) (ShapeKind, *Diagnostic) {
	switch t.Kind {
	case TypeUnit:
		return ShapeUnit, nil
	case TypeBytes:
		return ShapeBytes, nil
	case TypeString:
		return ShapeText, nil
	case TypeJSONResult:
		if t.Pointer {
			return 0, newDiagnostic(CodeUnsupportedReturn, raw.Location,
				"method %s must return JsonResult by value, not %s", raw.Name, t.Expr)
		}
		return ShapeJSONResult, nil
	case TypeError, TypeContext:
		return 0, newDiagnostic(CodeUnsupportedReturn, raw.Location,
			"method %s cannot decode a response into %s", raw.Name, t.Expr)
	default:
		return ShapeJSON, nil
	}
}

// ResolveClientKind derives the interface's client kind from the async flag
// of its methods and the interface-level local modifier.
func ResolveClientKind(iface Location, methods []*MethodDescriptor, local bool) (ClientKind, *Diagnostic) {
	if len(methods) == 0 {
		return Blocking, newDiagnostic(CodeNoMethod, iface, "%s", msgNoMethod)
	}

	async, sync := 0, 0
	for _, m := range methods {
		if m.Async {
			async++
		} else {
			sync++
		}
	}

	switch {
	case sync == 0 && local:
		return ThreadConfinedAsync, nil
	case sync == 0:
		return SharedAsync, nil
	case async == 0 && local:
		return Blocking, newDiagnostic(CodeUnsupportedModifierForBlocking, iface, "%s", msgLocalOnBlocking)
	case async == 0:
		return Blocking, nil
	}

	d := newDiagnostic(CodeInconsistentAsync, iface, "%s", msgInconsistentAsync)
	for _, m := range methods {
		if m.Async {
			d.note(m.Location, msgAsyncAt)
		} else {
			d.note(m.Location, msgSyncAt)
		}
	}
	return Blocking, d
}
