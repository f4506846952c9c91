package server

import (
	"log/slog"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"hotelmgt/internal/health"
	"hotelmgt/internal/server/interceptors"
)

// healthMethods are probe RPCs that are not request-logged.
var healthMethods = map[string]bool{
	healthpb.Health_Check_FullMethodName: true,
	healthpb.Health_Watch_FullMethodName: true,
}

// NewGRPCServer builds the gRPC server that carries the standard health service for the console.
// Traces are recorded with otelgrpc; unary calls are recovered and logged.
func NewGRPCServer(log *slog.Logger, checker *health.Checker, enableReflection bool) *grpc.Server {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryUnary(),
			interceptors.LoggingUnary(log, healthMethods),
		),
	)
	RegisterServices(s, checker)
	if enableReflection {
		reflection.Register(s)
	}
	return s
}

// RegisterServices registers the grpc_health_v1 service backed by checker.
func RegisterServices(s grpc.ServiceRegistrar, checker *health.Checker) {
	healthpb.RegisterHealthServer(s, checker.Server())
}
