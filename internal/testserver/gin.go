package testserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ginAdapter serves routes with Gin
type ginAdapter struct {
	engine *gin.Engine
	server *http.Server
}

func newGinAdapter() *ginAdapter {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	return &ginAdapter{engine: g, server: &http.Server{Handler: g}}
}

func (ga *ginAdapter) Register(route Route) {
	names := paramNames(route.Path)
	ga.engine.Handle(route.Method, colonPath(route.Path), func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		params := make(map[string]string, len(names))
		for _, name := range names {
			params[name] = c.Param(name)
		}

		reply := route.Handler(&Exchange{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Params: params,
			Query:  c.Request.URL.Query(),
			Header: c.Request.Header,
			Body:   body,
		})

		for k, vs := range reply.Header {
			for _, v := range vs {
				c.Writer.Header().Add(k, v)
			}
		}
		c.Status(reply.Status)
		_, _ = c.Writer.Write(reply.Body)
	})
}

func (ga *ginAdapter) Serve(ln net.Listener) error {
	err := ga.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (ga *ginAdapter) Shutdown(ctx context.Context) error {
	return ga.server.Shutdown(ctx)
}

func (ga *ginAdapter) Name() string {
	return "Gin"
}
