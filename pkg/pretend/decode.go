package pretend

import (
	"fmt"
	"mime"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/toyz/pretend/pkg/pretend/codec"
	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

// Decode converts a raw response into T following the response shape:
// unwrapped Unit, Bytes, Text and Json shapes fail with a status error on a
// non-2xx status, JsonResult picks its success or error type by status, and
// wrapped shapes always decode and keep status and headers.
func Decode[T any](raw *RawResponse, shape descriptor.ResponseShape, c codec.Codec) (T, error) {
	var out T
	if shape.ChecksStatus() && !raw.Success() {
		return out, statusError(raw.StatusCode)
	}

	if shape.Wrapped {
		f, ok := any(&out).(responseFiller)
		if !ok {
			return out, bodyError(fmt.Errorf("%T cannot hold a wrapped response", out))
		}
		err := f.fill(raw, func(target any) error {
			return decodeBody(target, raw, shape.Kind, c)
		})
		if err != nil {
			return out, asKind(err, bodyError)
		}
		return out, nil
	}

	if err := decodeBody(&out, raw, shape.Kind, c); err != nil {
		return out, asKind(err, bodyError)
	}
	return out, nil
}

func decodeBody(target any, raw *RawResponse, kind descriptor.ShapeKind, c codec.Codec) error {
	switch kind {
	case descriptor.ShapeUnit:
		return nil
	case descriptor.ShapeBytes:
		p, ok := target.(*[]byte)
		if !ok {
			return fmt.Errorf("bytes body cannot be stored in %T", target)
		}
		*p = raw.Body
		return nil
	case descriptor.ShapeText:
		p, ok := target.(*string)
		if !ok {
			return fmt.Errorf("text body cannot be stored in %T", target)
		}
		text, err := decodeText(raw)
		if err != nil {
			return err
		}
		*p = text
		return nil
	case descriptor.ShapeJSON:
		return c.Unmarshal(raw.Body, target)
	case descriptor.ShapeJSONResult:
		rd, ok := target.(resultDecoder)
		if !ok {
			return fmt.Errorf("json result cannot be stored in %T", target)
		}
		return rd.decodeResult(raw.Success(), raw.Body, c.Unmarshal)
	default:
		return fmt.Errorf("unknown response shape %s", kind)
	}
}

// decodeText decodes the body with the charset of its Content-Type, falling
// back to UTF-8 when the charset is absent or unknown. Invalid sequences are
// replaced rather than rejected.
func decodeText(raw *RawResponse) (string, error) {
	enc := charset(raw.Header.Get("Content-Type"))
	text, err := enc.NewDecoder().Bytes(raw.Body)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(text), nil
}

func charset(contentType string) encoding.Encoding {
	if contentType == "" {
		return unicode.UTF8
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return unicode.UTF8
	}
	name, ok := params["charset"]
	if !ok {
		return unicode.UTF8
	}
	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		return unicode.UTF8
	}
	return enc
}
