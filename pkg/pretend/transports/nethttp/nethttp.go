// Package nethttp implements pretend transports on top of net/http.
package nethttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/toyz/pretend/pkg/pretend"
)

// Client executes requests with an *http.Client. It is safe for concurrent
// use whenever the wrapped client is.
type Client struct {
	client *http.Client
}

// New wraps c, or http.DefaultClient when c is nil.
func New(c *http.Client) *Client {
	if c == nil {
		c = http.DefaultClient
	}
	return &Client{client: c}
}

func (c *Client) Execute(ctx context.Context, method string, u *url.URL, header http.Header, body []byte) (*pretend.RawResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if header != nil {
		req.Header = header.Clone()
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pretend.Error{Kind: pretend.KindBody, Cause: fmt.Errorf("read %s %s: %w", method, u.Redacted(), err)}
	}

	return &pretend.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Blocking returns the blocking view of the client.
func (c *Client) Blocking() pretend.BlockingTransport {
	return pretend.BlockingAdapter(c)
}
