package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeDB struct {
	down atomic.Bool
}

func (f *fakeDB) PingContext(ctx context.Context) error {
	if f.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func startServer(t *testing.T, db Pinger) (*HealthServer, healthpb.HealthClient, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := NewHealthServer(db, reg, 0)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Server().Serve(lis) }()
	t.Cleanup(s.Shutdown)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return s, healthpb.NewHealthClient(conn), reg
}

func TestHealthFollowsDatabase(t *testing.T) {
	db := &fakeDB{}
	s, client, reg := startServer(t, db)
	ctx := context.Background()

	for _, service := range []string{"", ServiceName} {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			t.Fatalf("check %q: %v", service, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("service %q: expected SERVING, got %v", service, resp.GetStatus())
		}
	}

	db.down.Store(true)
	if s.Check(ctx) {
		t.Fatal("expected the check to fail while the database is down")
	}
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("expected NOT_SERVING, got %v", resp.GetStatus())
	}

	db.down.Store(false)
	if !s.Check(ctx) {
		t.Fatal("expected the check to recover")
	}

	_, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("unknown service: expected NotFound, got %v", err)
	}

	if n, err := testutil.GatherAndCount(reg, "product_service_grpc_requests_total"); err != nil || n == 0 {
		t.Error("expected gRPC request metrics to be recorded")
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Panic"}
	_, err := RecoveryInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal, got %v", err)
	}
}

func TestNilDatabaseAlwaysServes(t *testing.T) {
	s, _, _ := startServer(t, nil)
	if !s.Check(context.Background()) {
		t.Error("expected SERVING without a database")
	}
}
