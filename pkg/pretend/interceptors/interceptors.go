// Package interceptors contains ready-made request interceptors.
package interceptors

import (
	"net/http"

	"github.com/toyz/pretend/pkg/pretend"
)

// Chain applies interceptors in order. The first error stops the chain.
func Chain(list ...pretend.Interceptor) pretend.Interceptor {
	return pretend.InterceptorFunc(func(req *pretend.Request) (*pretend.Request, error) {
		var err error
		for _, i := range list {
			req, err = i.Intercept(req)
			if err != nil {
				return nil, err
			}
		}
		return req, nil
	})
}

// Headers adds static headers to every request.
func Headers(h http.Header) pretend.Interceptor {
	return pretend.InterceptorFunc(func(req *pretend.Request) (*pretend.Request, error) {
		out := req.Clone()
		if out.Header == nil {
			out.Header = make(http.Header)
		}
		for name, values := range h {
			for _, v := range values {
				out.Header.Add(name, v)
			}
		}
		return out, nil
	})
}

// Bearer sets a static bearer token.
func Bearer(token string) pretend.Interceptor {
	return set("Authorization", func() (string, error) {
		return "Bearer " + token, nil
	})
}

// UserAgent sets the User-Agent header.
func UserAgent(agent string) pretend.Interceptor {
	return set("User-Agent", func() (string, error) {
		return agent, nil
	})
}

// set replaces a header with a computed value.
func set(name string, value func() (string, error)) pretend.Interceptor {
	return pretend.InterceptorFunc(func(req *pretend.Request) (*pretend.Request, error) {
		v, err := value()
		if err != nil {
			return nil, err
		}
		out := req.Clone()
		if out.Header == nil {
			out.Header = make(http.Header)
		}
		out.Header.Set(name, v)
		return out, nil
	})
}
