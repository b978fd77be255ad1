package server

import (
	"log/slog"

	sdkgrpc "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RelayService is the service name health checks ask for. The empty name covers the whole process.
const RelayService = "eyesup.Relay"

// HealthServer answers the standard gRPC health protocol so orchestrators
// can check the relay without a token.
type HealthServer struct {
	log    *slog.Logger
	health *health.Server
}

func NewHealthServer(log *slog.Logger) *HealthServer {
	h := &HealthServer{log: log, health: health.NewServer()}
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.health.SetServingStatus(RelayService, healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// NewGRPCServer builds the server with request logging and the health service registered.
func NewGRPCServer(log *slog.Logger, h *HealthServer) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(sdkgrpc.UnaryLoggingInterceptor(log)))
	healthpb.RegisterHealthServer(s, h.health)
	return s
}

func (h *HealthServer) Serving() {
	h.set(healthpb.HealthCheckResponse_SERVING)
}

// Shutdown flips every service to NOT_SERVING and refuses later updates.
func (h *HealthServer) Shutdown() {
	h.log.Info("Health switched to not serving")
	h.health.Shutdown()
}

func (h *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(RelayService, status)
	h.log.Debug("Health status changed", "status", status.String())
}
