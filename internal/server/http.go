// Package server wires the console's HTTP and gRPC servers.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"hotelmgt/internal/logger"
)

// RouteRegistrar mounts a handler's routes on a group (e.g. ActivityHandler, GuestHandler).
type RouteRegistrar interface {
	Register(rg *gin.RouterGroup)
}

// HTTPOptions configures NewRouter.
type HTTPOptions struct {
	// ServiceName enables otelgin spans when set.
	ServiceName string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Health serves /healthz. Nil disables the endpoint.
	Health gin.HandlerFunc
	Logger *slog.Logger
}

// NewRouter builds the gin engine: tracing, request logging and panic recovery, then /healthz,
// /metrics and every registrar under /v1.
func NewRouter(opts HTTPOptions, registrars ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(RequestLogger(opts.Logger))
	router.Use(Recovery())

	if opts.Health != nil {
		router.GET("/healthz", opts.Health)
	}
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	for _, r := range registrars {
		r.Register(v1)
	}
	return router
}

// NewHTTPServer wraps handler with the console's timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Recovery turns a handler panic into a 500 JSON error.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.ErrorContext(c.Request.Context(), "http handler panic", "path", c.FullPath(), "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// RequestLogger logs every request after it completes. 5xx responses log at error,
// 4xx at warn. /healthz and /metrics are logged at debug.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Component: "http"})
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		l := log
		if l == nil {
			l = slog.Default()
		}
		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case c.Request.URL.Path == "/healthz" || c.Request.URL.Path == "/metrics":
			level = slog.LevelDebug
		}
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		l.Log(ctx, level, "http request", attrs...)
	}
}
