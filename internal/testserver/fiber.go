package testserver

import (
	"context"
	"net"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// fiberAdapter serves routes with Fiber v2
type fiberAdapter struct {
	app *fiber.App
}

func newFiberAdapter() *fiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).SendString(err.Error())
		},
	})
	return &fiberAdapter{app: app}
}

func (fa *fiberAdapter) Register(route Route) {
	names := paramNames(route.Path)
	fa.app.Add(route.Method, colonPath(route.Path), func(c *fiber.Ctx) error {
		params := make(map[string]string, len(names))
		for _, name := range names {
			params[name] = c.Params(name)
		}

		query := url.Values{}
		c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
			query.Add(string(key), string(value))
		})

		header := http.Header{}
		for k, vs := range c.GetReqHeaders() {
			for _, v := range vs {
				header.Add(k, v)
			}
		}

		reply := route.Handler(&Exchange{
			Method: c.Method(),
			Path:   c.Path(),
			Params: params,
			Query:  query,
			Header: header,
			Body:   append([]byte(nil), c.Body()...),
		})

		for k, vs := range reply.Header {
			for _, v := range vs {
				c.Response().Header.Add(k, v)
			}
		}
		return c.Status(reply.Status).Send(reply.Body)
	})
}

func (fa *fiberAdapter) Serve(ln net.Listener) error {
	return fa.app.Listener(ln)
}

func (fa *fiberAdapter) Shutdown(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

func (fa *fiberAdapter) Name() string {
	return "Fiber"
}
