// Package health reports readiness of the console to load balancers over gRPC and HTTP.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// FeedService is the gRPC health service name reported for the activity feed.
const FeedService = "hotelmgt.activity.Feed"

// Pinger is used for the database readiness check (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Checker pings the database and mirrors the result into a grpc health server.
type Checker struct {
	pinger  Pinger
	server  *health.Server
	timeout time.Duration
}

// NewChecker returns a Checker. A nil pinger always reports serving.
func NewChecker(pinger Pinger) *Checker {
	return &Checker{pinger: pinger, server: health.NewServer(), timeout: 2 * time.Second}
}

// Server returns the grpc health server to register with grpc_health_v1.
func (c *Checker) Server() *health.Server {
	return c.server
}

// Check pings the database and updates the serving status of the overall server and FeedService.
// Returns the ping error, if any.
func (c *Checker) Check(ctx context.Context) error {
	status := healthpb.HealthCheckResponse_SERVING
	var err error
	if c.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err = c.pinger.PingContext(pingCtx)
		cancel()
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(FeedService, status)
	return err
}

// Run calls Check every interval until ctx is done.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := c.Check(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Shutdown marks every service NOT_SERVING so load balancers drain before the listeners close.
func (c *Checker) Shutdown() {
	c.server.Shutdown()
}

// Handle serves GET /healthz: 200 with {"status":"SERVING"} or 503 with the ping error.
func (c *Checker) Handle(ctx *gin.Context) {
	if err := c.Check(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": healthpb.HealthCheckResponse_NOT_SERVING.String(), "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": healthpb.HealthCheckResponse_SERVING.String()})
}
