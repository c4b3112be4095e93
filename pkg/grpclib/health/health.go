package health

import (
	"google.golang.org/grpc"
	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc health server and mirrors the HTTP readiness state so
// that orchestrators speaking the gRPC health protocol see the same answer.
type Server struct {
	server   *healthgrpc.Server
	services []string
}

// NewServer creates health server using default grpc health server. The
// named services start NOT_SERVING until SetServing is called.
func NewServer(services ...string) *Server {
	s := &Server{
		server:   healthgrpc.NewServer(),
		services: services,
	}
	s.SetServing(false)
	return s
}

// SetServing flips every registered service, and the overall "" service, to
// SERVING or NOT_SERVING.
func (h *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	h.server.SetServingStatus("", status)
	for _, name := range h.services {
		h.server.SetServingStatus(name, status)
	}
}

// Shutdown sets all serving status to NOT_SERVING and ignores later updates.
func (h *Server) Shutdown() {
	h.server.Shutdown()
}

// Register registers health server.
func (h *Server) Register(grpc *grpc.Server) {
	healthpb.RegisterHealthServer(grpc, h.server)
}
