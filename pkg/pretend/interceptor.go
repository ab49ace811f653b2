package pretend

// Interceptor rewrites a request after URL resolution and before it reaches
// the transport. Returning an error aborts the call with a request error.
type Interceptor interface {
	Intercept(req *Request) (*Request, error)
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(req *Request) (*Request, error)

func (f InterceptorFunc) Intercept(req *Request) (*Request, error) {
	return f(req)
}

// NoopInterceptor returns requests unchanged.
type NoopInterceptor struct{}

func (NoopInterceptor) Intercept(req *Request) (*Request, error) {
	return req, nil
}
