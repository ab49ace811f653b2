package testserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

// echoAdapter serves routes with Echo v4
type echoAdapter struct {
	engine *echo.Echo
	server *http.Server
}

func newEchoAdapter() *echoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &echoAdapter{engine: e, server: &http.Server{Handler: e}}
}

func (ea *echoAdapter) Register(route Route) {
	names := paramNames(route.Path)
	ea.engine.Add(route.Method, colonPath(route.Path), func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}

		params := make(map[string]string, len(names))
		for _, name := range names {
			params[name] = c.Param(name)
		}

		reply := route.Handler(&Exchange{
			Method: c.Request().Method,
			Path:   c.Request().URL.Path,
			Params: params,
			Query:  c.QueryParams(),
			Header: c.Request().Header,
			Body:   body,
		})

		for k, vs := range reply.Header {
			for _, v := range vs {
				c.Response().Header().Add(k, v)
			}
		}
		c.Response().WriteHeader(reply.Status)
		_, err = c.Response().Write(reply.Body)
		return err
	})
}

func (ea *echoAdapter) Serve(ln net.Listener) error {
	err := ea.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (ea *echoAdapter) Shutdown(ctx context.Context) error {
	return ea.server.Shutdown(ctx)
}

func (ea *echoAdapter) Name() string {
	return "Echo"
}
