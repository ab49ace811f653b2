// Package fasthttp implements pretend transports on top of valyala/fasthttp.
package fasthttp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/valyala/fasthttp"

	"github.com/toyz/pretend/pkg/pretend"
)

// Client executes requests with a *fasthttp.Client, which is safe for
// concurrent use.
type Client struct {
	client *fasthttp.Client
}

// New wraps c, or a zero fasthttp.Client when c is nil.
func New(c *fasthttp.Client) *Client {
	if c == nil {
		c = &fasthttp.Client{}
	}
	return &Client{client: c}
}

// Execute honors the context deadline. Cancellation without a deadline is
// only observed before the request is sent.
func (c *Client) Execute(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*pretend.RawResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetNoDefaultContentType(true)
	req.Header.SetMethod(method)
	req.SetRequestURI(u.String())
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if body != nil {
		req.SetBody(body)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return nil, err
	}

	out := make(http.Header)
	resp.Header.VisitAll(func(key, value []byte) {
		out.Add(string(key), string(value))
	})

	return &pretend.RawResponse{
		StatusCode: resp.StatusCode(),
		Header:     out,
		Body:       append([]byte(nil), resp.Body()...),
	}, nil
}

// Blocking returns the blocking view of the client.
func (c *Client) Blocking() pretend.BlockingTransport {
	return pretend.BlockingAdapter(c)
}
