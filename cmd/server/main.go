package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hotelmgt/internal/activity"
	"hotelmgt/internal/activity/feed"
	activityhandler "hotelmgt/internal/activity/handler"
	activityrepo "hotelmgt/internal/activity/repository"
	"hotelmgt/internal/activity/source"
	"hotelmgt/internal/config"
	"hotelmgt/internal/db"
	employeerepo "hotelmgt/internal/employee/repository"
	guesthandler "hotelmgt/internal/guest/handler"
	guestservice "hotelmgt/internal/guest/service"
	"hotelmgt/internal/health"
	"hotelmgt/internal/logger"
	"hotelmgt/internal/server"
	"hotelmgt/internal/telemetry/otel"
)

const healthInterval = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// OTel first: the logger routes through its LoggerProvider when exporting.
	providers, err := otel.NewProviders(ctx, otel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	providers.SetGlobal()

	logOpts := logger.Options{Level: cfg.LogLevel, JSON: cfg.IsProduction(), ServiceName: cfg.ServiceName}
	if providers.Exporting {
		logOpts.LoggerProvider = providers.LoggerProvider
	}
	log := logger.Setup(logOpts)
	log.InfoContext(ctx, "console starting", "env", cfg.Env, "service", cfg.ServiceName, "otel", providers.Exporting)

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	log.InfoContext(ctx, "database connected")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := feed.NewMetrics(reg)

	activityLogs := activityrepo.NewPostgresActivityLogRepository(conn, cfg.FeedEmployeeRole)
	payments := activityrepo.NewPostgresPaymentRepository(conn, cfg.FeedEmployeeRole)
	sources := []feed.Source{
		source.NewActivityLog(activityLogs, log),
		source.NewPayments(payments, log),
	}
	aggregator := feed.NewAggregator(cfg.FetchTimeout(), metrics, sources...)
	tracker := feed.NewTracker(cfg.FetchTimeout(), metrics, sources...)
	registry := feed.NewRegistry(cfg.SessionCacheSize, cfg.SessionIdleTTL(), aggregator, tracker, metrics)

	guests := guestservice.NewGuestService(guestservice.NewTxRunner(conn), activity.NewRecorder(activityLogs))

	checker := health.NewChecker(conn)
	go checker.Run(ctx, healthInterval)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.HTTPOptions{
		ServiceName: cfg.ServiceName,
		Gatherer:    reg,
		Health:      checker.Handle,
		Logger:      log,
	},
		activityhandler.NewActivityHandler(aggregator, registry, employeerepo.NewPostgresRepository(conn), cfg.FeedEmployeeRole),
		guesthandler.NewGuestHandler(guests),
	)
	httpServer := server.NewHTTPServer(cfg.HTTPAddr, router)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}
	grpcServer := server.NewGRPCServer(log, checker, !cfg.IsProduction())

	errCh := make(chan error, 2)
	go func() {
		log.InfoContext(ctx, "http server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		log.InfoContext(ctx, "grpc server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		log.ErrorContext(ctx, "server failed", "error", runErr)
	}

	log.Info("shutting down")
	checker.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown", "error", err)
	}
	grpcServer.GracefulStop()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "otel shutdown", "error", err)
	}
	log.Info("shutdown complete")
	return runErr
}
