// Package grpc exposes the standard gRPC health service of the catalog,
// reporting SERVING while the database answers pings.
package grpc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/techstore/pkg/logger"
)

// ServiceName is the health service name reported next to the overall status
const ServiceName = "techstore.catalog"

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer owns the gRPC server and keeps the health status in step with
// the database
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	db       Pinger
	interval time.Duration
}

// NewHealthServer builds a gRPC server with the health and reflection
// services. db may be nil, in which case the server always reports SERVING.
func NewHealthServer(db Pinger, reg prometheus.Registerer, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	metrics := NewMetrics(reg, "product_service")
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
			metrics.UnaryInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	s := &HealthServer{server: server, health: hs, db: db, interval: interval}
	s.setServing(true)
	return s
}

// Server returns the underlying gRPC server for Serve and GracefulStop
func (s *HealthServer) Server() *grpc.Server {
	return s.server
}

// Check pings the database once and updates the reported status
func (s *HealthServer) Check(ctx context.Context) bool {
	ok := true
	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(pingCtx); err != nil {
			logger.Warn(ctx).Err(err).Msg("Database ping failed, reporting NOT_SERVING")
			ok = false
		}
	}
	s.setServing(ok)
	return ok
}

// Watch runs Check every interval until ctx is done
func (s *HealthServer) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING and stops the server gracefully
func (s *HealthServer) Shutdown() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *HealthServer) setServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}
