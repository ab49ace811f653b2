// Package codec serializes request payloads and deserializes response bodies.
//
// JSON goes through bytedance/sonic with standard-library compatible
// settings. Form bodies and query strings are produced from url.Values,
// string maps, or structs tagged for gorilla/schema. Struct payloads can be
// checked with go-playground/validator before they are encoded.
package codec

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// DefaultTag is the struct tag read when encoding forms and query strings.
const DefaultTag = "schema"

// Codec is the serialization surface used by the request builder and the
// response decoder.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	EncodeForm(v any) (string, error)
	EncodeQuery(v any) (string, error)
}

// Default is the stock Codec.
type Default struct {
	json     sonic.API
	encoder  *schema.Encoder
	validate *validator.Validate
}

// Option configures a Default codec.
type Option func(*Default)

// WithValidator validates struct payloads before they are encoded.
func WithValidator(v *validator.Validate) Option {
	return func(d *Default) {
		d.validate = v
	}
}

// WithFormTag changes the struct tag read for form and query encoding.
func WithFormTag(tag string) Option {
	return func(d *Default) {
		d.encoder.SetAliasTag(tag)
	}
}

// WithJSON replaces the sonic configuration, e.g. sonic.ConfigFastest.
func WithJSON(api sonic.API) Option {
	return func(d *Default) {
		d.json = api
	}
}

// New returns a Default codec.
func New(opts ...Option) *Default {
	d := &Default{
		json:    sonic.ConfigStd,
		encoder: schema.NewEncoder(),
	}
	d.encoder.SetAliasTag(DefaultTag)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var std = New()

// Std returns the shared default codec.
func Std() *Default {
	return std
}

func (d *Default) Marshal(v any) ([]byte, error) {
	if err := d.check(v); err != nil {
		return nil, err
	}
	data, err := d.json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return data, nil
}

func (d *Default) Unmarshal(data []byte, v any) error {
	if err := d.json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return nil
}

func (d *Default) EncodeForm(v any) (string, error) {
	values, err := d.Values(v)
	if err != nil {
		return "", fmt.Errorf("encode form: %w", err)
	}
	return values.Encode(), nil
}

func (d *Default) EncodeQuery(v any) (string, error) {
	values, err := d.Values(v)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	return values.Encode(), nil
}

// Values converts a payload to url.Values. Supported inputs are url.Values,
// maps keyed by string, pre-encoded query strings and structs (or pointers
// to structs) tagged for gorilla/schema.
func (d *Default) Values(v any) (url.Values, error) {
	switch t := v.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return t, nil
	case map[string][]string:
		return url.Values(t), nil
	case map[string]string:
		values := make(url.Values, len(t))
		for k, s := range t {
			values.Set(k, s)
		}
		return values, nil
	case string:
		return url.ParseQuery(t)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return url.Values{}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		if err := d.check(v); err != nil {
			return nil, err
		}
		values := url.Values{}
		if err := d.encoder.Encode(rv.Interface(), values); err != nil {
			return nil, err
		}
		return values, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot encode %T: map keys must be strings", v)
		}
		values := make(url.Values, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			addValue(values, iter.Key().String(), iter.Value())
		}
		return values, nil
	default:
		return nil, fmt.Errorf("cannot encode %T as url values", v)
	}
}

func addValue(values url.Values, key string, v reflect.Value) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Type().Elem().Kind() != reflect.Uint8 {
		for i := range v.Len() {
			addValue(values, key, v.Index(i))
		}
		return
	}
	values.Add(key, fmt.Sprint(v.Interface()))
}

// check runs the validator on struct payloads when one is configured.
func (d *Default) check(v any) error {
	if d.validate == nil || v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if err := d.validate.Struct(rv.Interface()); err != nil {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	return nil
}
