// Package testclient provides a transport that answers from a callback and
// records every request it sees.
package testclient

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/toyz/pretend/pkg/pretend"
)

// Call is one recorded request.
type Call struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Handler produces the response for a call.
type Handler func(Call) (*pretend.RawResponse, error)

// Client is both a Transport and a BlockingTransport.
type Client struct {
	handler Handler

	mu    sync.Mutex
	calls []Call
}

// New returns a client answering with handler.
func New(handler Handler) *Client {
	return &Client{handler: handler}
}

// Respond returns a handler that always answers with the given status and
// body. Headers are given as name/value pairs.
func Respond(status int, body string, headers ...string) Handler {
	return func(Call) (*pretend.RawResponse, error) {
		h := make(http.Header)
		for i := 0; i+1 < len(headers); i += 2 {
			h.Add(headers[i], headers[i+1])
		}
		return &pretend.RawResponse{StatusCode: status, Header: h, Body: []byte(body)}, nil
	}
}

// Fail returns a handler that always fails with err.
func Fail(err error) Handler {
	return func(Call) (*pretend.RawResponse, error) {
		return nil, err
	}
}

func (c *Client) Execute(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*pretend.RawResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.execute(method, u, header, body)
}

// Blocking returns the blocking view of the client.
func (c *Client) Blocking() pretend.BlockingTransport {
	return pretend.BlockingTransportFunc(c.execute)
}

func (c *Client) execute(method string, u *url.URL, header http.Header, body []byte) (*pretend.RawResponse, error) {
	call := Call{Method: method, URL: u, Header: header.Clone(), Body: body}

	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()

	return c.handler(call)
}

// Calls returns a copy of the recorded calls.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Last returns the most recent call.
func (c *Client) Last() (Call, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return Call{}, false
	}
	return c.calls[len(c.calls)-1], true
}
