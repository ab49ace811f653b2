package pretend

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var (
	errNoTransport = errors.New("no transport configured for this kind of call")
	errNoResponse  = errors.New("transport returned no response")
	errNoRequest   = errors.New("interceptor returned no request")
)

// Dispatch sends a plan through an async transport: the path is resolved,
// the query appended, the interceptor applied and the transport called.
func (p *Pretend) Dispatch(ctx context.Context, plan *RequestPlan) (*RawResponse, error) {
	if p.local == nil {
		return p.dispatch(ctx, plan)
	}

	var (
		raw *RawResponse
		err error
	)
	if lerr := p.local.run(ctx, func() { raw, err = p.dispatch(ctx, plan) }); lerr != nil {
		return nil, lerr
	}
	return raw, err
}

// DispatchBlocking sends a plan through a blocking transport.
func (p *Pretend) DispatchBlocking(plan *RequestPlan) (*RawResponse, error) {
	if p.blocking == nil {
		return nil, clientError(errNoTransport)
	}
	req, err := p.prepare(plan)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := p.blocking.Execute(req.Method, req.URL, req.Header, plan.Body)
	return p.finish(context.Background(), req, raw, err, start)
}

func (p *Pretend) dispatch(ctx context.Context, plan *RequestPlan) (*RawResponse, error) {
	if p.transport == nil {
		return nil, clientError(errNoTransport)
	}
	req, err := p.prepare(plan)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := p.transport.Execute(ctx, req.Method, req.URL, req.Header, plan.Body)
	return p.finish(ctx, req, raw, err, start)
}

func (p *Pretend) prepare(plan *RequestPlan) (*Request, error) {
	resolved, err := p.resolver.ResolveURL(plan.Path)
	if err != nil {
		return nil, requestError(err)
	}
	u := *resolved
	if plan.Query != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&" + plan.Query
		} else {
			u.RawQuery = plan.Query
		}
	}

	req, err := p.interceptor.Intercept(&Request{Method: plan.Verb, URL: &u, Header: plan.Header})
	if err != nil {
		return nil, asKind(err, requestError)
	}
	if req == nil || req.URL == nil {
		return nil, requestError(errNoRequest)
	}
	return req, nil
}

func (p *Pretend) finish(ctx context.Context, req *Request, raw *RawResponse, err error, start time.Time) (*RawResponse, error) {
	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
		slog.Duration("elapsed", time.Since(start)),
	}
	if err == nil && raw == nil {
		err = errNoResponse
	}
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelDebug, "pretend request failed", append(attrs, slog.Any("error", err))...)
		return nil, asKind(err, responseError)
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "pretend request", append(attrs, slog.Int("status", raw.StatusCode))...)
	return raw, nil
}
