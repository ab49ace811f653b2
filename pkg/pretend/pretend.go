// Package pretend is the runtime of declarative HTTP clients.
//
// A Pretend bundles a transport, a URL resolver and an interceptor. Binding
// it to an interface descriptor, usually from generated code, yields a
// Binding whose calls build, dispatch and decode requests:
//
//	p := pretend.ForClient(nethttp.New(http.DefaultClient)).
//		WithURL(base).
//		WithInterceptor(interceptors.Bearer(token))
//	client, err := NewHttpBin(p)
package pretend

import (
	"log/slog"
	"net/url"

	"github.com/toyz/pretend/pkg/pretend/codec"
)

type transportMode int

const (
	modeShared transportMode = iota
	modeLocal
	modeBlocking
)

// Pretend is the read-only context shared by every call of a client. The
// With methods return modified copies.
type Pretend struct {
	transport   Transport
	blocking    BlockingTransport
	mode        transportMode
	local       *loop
	resolver    URLResolver
	interceptor Interceptor
	codec       codec.Codec
	logger      *slog.Logger
}

// New returns a Pretend over a transport that is safe for concurrent use.
func New(t Transport, resolver URLResolver, interceptor Interceptor) *Pretend {
	return &Pretend{
		transport:   t,
		mode:        modeShared,
		resolver:    resolver,
		interceptor: interceptor,
		codec:       codec.Std(),
		logger:      slog.New(slog.DiscardHandler),
	}
}

// ForClient returns a Pretend over a transport that is safe for concurrent
// use. It has no URL until WithURL or WithURLResolver is called.
func ForClient(t Transport) *Pretend {
	return New(t, InvalidURLResolver{}, NoopInterceptor{})
}

// ForLocalClient returns a Pretend over a transport that must not be used
// concurrently. Every request it sends is serialized on one goroutine, and
// it only binds thread-confined interfaces.
func ForLocalClient(t Transport) *Pretend {
	p := New(t, InvalidURLResolver{}, NoopInterceptor{})
	p.mode = modeLocal
	p.local = newLoop()
	return p
}

// ForBlockingClient returns a Pretend over a blocking transport.
func ForBlockingClient(t BlockingTransport) *Pretend {
	p := New(nil, InvalidURLResolver{}, NoopInterceptor{})
	p.blocking = t
	p.mode = modeBlocking
	return p
}

func (p *Pretend) clone() *Pretend {
	c := *p
	return &c
}

// WithURL resolves every path against base.
func (p *Pretend) WithURL(base *url.URL) *Pretend {
	return p.WithURLResolver(NewBaseURLResolver(base))
}

// WithURLResolver replaces the URL resolver.
func (p *Pretend) WithURLResolver(r URLResolver) *Pretend {
	c := p.clone()
	c.resolver = r
	return c
}

// WithInterceptor replaces the request interceptor.
func (p *Pretend) WithInterceptor(i Interceptor) *Pretend {
	c := p.clone()
	c.interceptor = i
	return c
}

// WithCodec replaces the payload codec.
func (p *Pretend) WithCodec(cd codec.Codec) *Pretend {
	c := p.clone()
	c.codec = cd
	return c
}

// WithLogger sets the logger receiving a debug record per dispatch.
func (p *Pretend) WithLogger(l *slog.Logger) *Pretend {
	c := p.clone()
	c.logger = l
	return c
}

// Codec returns the payload codec.
func (p *Pretend) Codec() codec.Codec {
	return p.codec
}

// URLResolver returns the URL resolver.
func (p *Pretend) URLResolver() URLResolver {
	return p.resolver
}

// Interceptor returns the request interceptor.
func (p *Pretend) Interceptor() Interceptor {
	return p.interceptor
}

// Close stops the goroutine serializing a local transport. It is a no-op for
// other transports. Copies made with the With methods share that goroutine.
func (p *Pretend) Close() error {
	if p.local != nil {
		p.local.close()
	}
	return nil
}
