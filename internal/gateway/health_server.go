package gateway

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RouterService is the service name reported through grpc.health.v1.
const RouterService = "mesh.v1.Router"

// HealthServer publishes mesh readiness over the standard gRPC health
// protocol. The empty service name tracks the process, RouterService tracks
// whether any agent can currently receive work.
type HealthServer struct {
	server *health.Server
	logger *slog.Logger
	ready  bool
}

func NewHealthServer(logger *slog.Logger) *HealthServer {
	hs := &HealthServer{
		server: health.NewServer(),
		logger: logger.With("component", "grpc_health"),
	}
	hs.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.server.SetServingStatus(RouterService, healthpb.HealthCheckResponse_NOT_SERVING)
	return hs
}

func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// SetReady flips RouterService between SERVING and NOT_SERVING. It is called
// from a single goroutine.
func (h *HealthServer) SetReady(ready bool) {
	if ready == h.ready {
		return
	}
	h.ready = ready

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus(RouterService, status)
	h.logger.Info("router serving status changed", "status", status.String())
}

func (h *HealthServer) Status(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Shutdown reports NOT_SERVING for every service ahead of a graceful stop.
func (h *HealthServer) Shutdown() {
	h.server.Shutdown()
}
