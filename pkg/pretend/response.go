package pretend

import "net/http"

// Unit is the empty result of calls that only care about success.
type Unit = struct{}

// Response wraps a decoded body with the status and headers it came with.
// Wrapped results never fail on a non-2xx status.
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Body       T
}

// MapResponse converts the body of a response, keeping status and headers.
func MapResponse[T, U any](r Response[T], fn func(T) U) Response[U] {
	return Response[U]{StatusCode: r.StatusCode, Header: r.Header, Body: fn(r.Body)}
}

// TryMapResponse converts the body of a response with a fallible function.
func TryMapResponse[T, U any](r Response[T], fn func(T) (U, error)) (Response[U], error) {
	body, err := fn(r.Body)
	if err != nil {
		return Response[U]{}, err
	}
	return Response[U]{StatusCode: r.StatusCode, Header: r.Header, Body: body}, nil
}

// JsonResult holds the body decoded as T on a 2xx status and as E otherwise.
type JsonResult[T, E any] struct {
	ok  *T
	err *E
}

// OkResult builds a successful result.
func OkResult[T, E any](v T) JsonResult[T, E] {
	return JsonResult[T, E]{ok: &v}
}

// ErrResult builds a failed result.
func ErrResult[T, E any](e E) JsonResult[T, E] {
	return JsonResult[T, E]{err: &e}
}

// IsOk reports whether the response status was 2xx.
func (r JsonResult[T, E]) IsOk() bool {
	return r.ok != nil
}

// Ok returns the success value.
func (r JsonResult[T, E]) Ok() (T, bool) {
	if r.ok == nil {
		var zero T
		return zero, false
	}
	return *r.ok, true
}

// Err returns the error value.
func (r JsonResult[T, E]) Err() (E, bool) {
	if r.err == nil {
		var zero E
		return zero, false
	}
	return *r.err, true
}

func (r *JsonResult[T, E]) decodeResult(success bool, body []byte, unmarshal func([]byte, any) error) error {
	*r = JsonResult[T, E]{}
	if success {
		var v T
		if err := unmarshal(body, &v); err != nil {
			return err
		}
		r.ok = &v
		return nil
	}
	var e E
	if err := unmarshal(body, &e); err != nil {
		return err
	}
	r.err = &e
	return nil
}

// resultDecoder is implemented by *JsonResult.
type resultDecoder interface {
	decodeResult(success bool, body []byte, unmarshal func([]byte, any) error) error
}

func (r *Response[T]) fill(raw *RawResponse, body func(target any) error) error {
	r.StatusCode = raw.StatusCode
	r.Header = raw.Header
	return body(&r.Body)
}

// responseFiller is implemented by *Response.
type responseFiller interface {
	fill(raw *RawResponse, body func(target any) error) error
}
