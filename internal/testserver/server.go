// Package testserver runs an httpbin-like HTTP server on a real port for
// integration tests. The same routes can be served by echo, gin or fiber.
package testserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Engine selects the web framework serving the routes.
type Engine string

const (
	EngineEcho  Engine = "echo"
	EngineGin   Engine = "gin"
	EngineFiber Engine = "fiber"
)

// Engines lists every supported engine.
var Engines = []Engine{EngineEcho, EngineGin, EngineFiber}

// Exchange is the framework-agnostic view of an incoming request.
type Exchange struct {
	Method string
	Path   string
	Params map[string]string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Reply is the framework-agnostic response of a handler.
type Reply struct {
	Status int
	Header http.Header
	Body   []byte
}

// HandlerFunc answers an exchange.
type HandlerFunc func(ex *Exchange) Reply

// Route binds a handler to a method and a path. Path parameters use the
// {name} form and are converted for each engine.
type Route struct {
	Method  string
	Path    string
	Handler HandlerFunc
}

// adapter serves routes with one framework.
type adapter interface {
	Register(route Route)
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
	Name() string
}

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

// colonPath converts /status/{status}/text to /status/:status/text.
func colonPath(path string) string {
	return pathParam.ReplaceAllString(path, ":$1")
}

// paramNames lists the parameters of a route path.
func paramNames(path string) []string {
	var names []string
	for _, m := range pathParam.FindAllStringSubmatch(path, -1) {
		names = append(names, m[1])
	}
	return names
}

// Server is a running test server.
type Server struct {
	URL     *url.URL
	adapter adapter
	errc    chan error
}

// Start serves the default routes with the given engine on an ephemeral
// localhost port.
func Start(engine Engine) (*Server, error) {
	return StartWithRoutes(engine, Routes())
}

// StartWithRoutes serves custom routes.
func StartWithRoutes(engine Engine, routes []Route) (*Server, error) {
	var a adapter
	switch engine {
	case EngineEcho:
		a = newEchoAdapter()
	case EngineGin:
		a = newGinAdapter()
	case EngineFiber:
		a = newFiberAdapter()
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}

	for _, r := range routes {
		a.Register(r)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{
		URL:     &url.URL{Scheme: "http", Host: ln.Addr().String()},
		adapter: a,
		errc:    make(chan error, 1),
	}
	go func() {
		s.errc <- a.Serve(ln)
	}()

	if err := waitReady(ln.Addr().String()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func waitReady(addr string) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			return conn.Close()
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("server on %s did not become ready", addr)
}

// Name returns the engine name.
func (s *Server) Name() string {
	return s.adapter.Name()
}

// Close shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.adapter.Shutdown(ctx)
}

func lowerHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}
