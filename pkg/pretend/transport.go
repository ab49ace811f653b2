package pretend

import (
	"context"
	"net/http"
	"net/url"
)

// Request is the dispatchable form of a call after URL resolution. It is what
// an Interceptor sees and may replace. The body is not part of it.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	u := *r.URL
	if r.URL.User != nil {
		user := *r.URL.User
		u.User = &user
	}
	return &Request{
		Method: r.Method,
		URL:    &u,
		Header: r.Header.Clone(),
	}
}

// RawResponse is the undecoded result of a transport call.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status is in the 2xx range.
func (r *RawResponse) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport executes requests for async clients. Implementations passed to
// ForClient must be safe for concurrent use; those passed to ForLocalClient
// need not be.
type Transport interface {
	Execute(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*RawResponse, error)
}

// BlockingTransport executes requests for blocking clients.
type BlockingTransport interface {
	Execute(method string, u *url.URL, header http.Header, body []byte) (*RawResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*RawResponse, error)

func (f TransportFunc) Execute(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*RawResponse, error) {
	return f(ctx, method, u, header, body)
}

// BlockingTransportFunc adapts a function to BlockingTransport.
type BlockingTransportFunc func(method string, u *url.URL, header http.Header, body []byte) (*RawResponse, error)

func (f BlockingTransportFunc) Execute(method string, u *url.URL, header http.Header, body []byte) (*RawResponse, error) {
	return f(method, u, header, body)
}

// BlockingAdapter runs an async transport synchronously with a background
// context.
func BlockingAdapter(t Transport) BlockingTransport {
	return BlockingTransportFunc(func(method string, u *url.URL, header http.Header, body []byte) (*RawResponse, error) {
		return t.Execute(context.Background(), method, u, header, body)
	})
}
