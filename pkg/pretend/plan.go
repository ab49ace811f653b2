package pretend

import (
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/toyz/pretend/pkg/pretend/codec"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// RequestPlan is the fully rendered, not yet dispatched form of a call.
type RequestPlan struct {
	Verb   string
	Path   string
	Header http.Header
	Body   []byte // nil when the request has no body
	Query  string // encoded query string, empty when absent
}

// BuildPlan renders the path and headers of a method with the call's
// arguments, encodes the body and serializes the query. Every failure is a
// request error.
func BuildPlan(m *descriptor.MethodDescriptor, args Args, c codec.Codec) (*RequestPlan, error) {
	strs := args.Strings()

	path, err := Render(m.Path, strs)
	if err != nil {
		return nil, requestError(err)
	}

	header := make(http.Header, len(m.Headers)+1)
	for _, h := range m.Headers {
		if err := addHeader(header, h, strs); err != nil {
			return nil, requestError(err)
		}
	}

	plan := &RequestPlan{Verb: m.Verb, Path: path, Header: header}

	if err := plan.encodeBody(m.Body, args, c); err != nil {
		return nil, requestError(err)
	}

	if m.HasQuery() {
		query, err := c.EncodeQuery(args[m.Query])
		if err != nil {
			return nil, requestError(err)
		}
		plan.Query = query
	}

	return plan, nil
}

func addHeader(header http.Header, h descriptor.HeaderTemplate, args map[string]string) error {
	name, err := Render(h.Name, args)
	if err != nil {
		return err
	}
	value, err := Render(h.Value, args)
	if err != nil {
		return err
	}
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("invalid header name %q", name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid value for header %s", name)
	}
	header.Add(name, value)
	return nil
}

func (p *RequestPlan) encodeBody(role descriptor.BodyRole, args Args, c codec.Codec) error {
	switch role.Kind {
	case descriptor.BodyNone:
		return nil
	case descriptor.BodyRaw:
		body, err := rawBody(args[role.Param])
		if err != nil {
			return err
		}
		p.Body = body
		return nil
	case descriptor.BodyForm:
		form, err := c.EncodeForm(args[role.Param])
		if err != nil {
			return err
		}
		p.Body = []byte(form)
		p.setContentType(contentTypeForm)
		return nil
	case descriptor.BodyJSON:
		data, err := c.Marshal(args[role.Param])
		if err != nil {
			return err
		}
		p.Body = data
		p.setContentType(contentTypeJSON)
		return nil
	default:
		return fmt.Errorf("unknown body kind %s", role.Kind)
	}
}

// setContentType keeps a Content-Type that a header template already set.
func (p *RequestPlan) setContentType(value string) {
	if p.Header.Get("Content-Type") == "" {
		p.Header.Set("Content-Type", value)
	}
}

func rawBody(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	case io.Reader:
		data, err := io.ReadAll(t)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("raw body must be []byte, string or io.Reader, got %T", v)
	}
}
