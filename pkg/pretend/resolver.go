package pretend

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrEmptyHost is returned by InvalidURLResolver.
var ErrEmptyHost = errors.New("empty host")

// URLResolver turns a rendered path into an absolute URL.
type URLResolver interface {
	ResolveURL(path string) (*url.URL, error)
}

// URLResolverFunc adapts a function to URLResolver.
type URLResolverFunc func(path string) (*url.URL, error)

func (f URLResolverFunc) ResolveURL(path string) (*url.URL, error) {
	return f(path)
}

// BaseURLResolver joins paths onto a base URL with RFC 3986 reference
// resolution: an absolute path replaces the base path, a relative path is
// resolved against its last segment.
type BaseURLResolver struct {
	base *url.URL
}

// NewBaseURLResolver returns a resolver rooted at base.
func NewBaseURLResolver(base *url.URL) *BaseURLResolver {
	u := *base
	return &BaseURLResolver{base: &u}
}

func (r *BaseURLResolver) ResolveURL(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	return r.base.ResolveReference(ref), nil
}

// Base returns a copy of the base URL.
func (r *BaseURLResolver) Base() *url.URL {
	u := *r.base
	return &u
}

// InvalidURLResolver fails every resolution. It is the default of a Pretend
// that was never given a URL.
type InvalidURLResolver struct{}

func (InvalidURLResolver) ResolveURL(path string) (*url.URL, error) {
	return nil, fmt.Errorf("resolve %q: %w", path, ErrEmptyHost)
}
