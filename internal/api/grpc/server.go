package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"rentshare-backend/internal/api/grpc/interceptor"
)

// ServiceName is reported next to the overall ("") health status.
const ServiceName = "rentshare.Backend"

// Health publishes database reachability through grpc.health.v1.
type Health struct {
	*health.Server
}

// NewHealth starts NOT_SERVING until the first successful check.
func NewHealth() *Health {
	h := &Health{Server: health.NewServer()}
	h.SetServing(false)
	return h
}

func (h *Health) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.SetServingStatus("", st)
	h.SetServingStatus(ServiceName, st)
}

// NewServer builds a server exposing the health service and reflection.
func NewServer(h *Health, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(interceptor.Recovery(), interceptor.Logging()),
	}, opts...)
	s := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(s, h.Server)

	// Register reflection service for grpcurl
	reflection.Register(s)
	return s
}
