package gateway

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestHealthServer() *HealthServer {
	return NewHealthServer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHealthServer_InitialStatus(t *testing.T) {
	hs := newTestHealthServer()
	ctx := context.Background()

	st, err := hs.Status(ctx, "")
	if err != nil || st != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("process status = %v, %v; want SERVING", st, err)
	}
	st, err = hs.Status(ctx, RouterService)
	if err != nil || st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("router status = %v, %v; want NOT_SERVING", st, err)
	}
}

func TestHealthServer_SetReady(t *testing.T) {
	hs := newTestHealthServer()
	ctx := context.Background()

	hs.SetReady(true)
	if st, _ := hs.Status(ctx, RouterService); st != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", st)
	}

	hs.SetReady(false)
	if st, _ := hs.Status(ctx, RouterService); st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %v, want NOT_SERVING", st)
	}
}

func TestHealthServer_UnknownService(t *testing.T) {
	hs := newTestHealthServer()

	_, err := hs.Status(context.Background(), "mesh.v1.Unknown")
	if status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestHealthServer_OverGRPC(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	hs := newTestHealthServer()
	hs.Register(srv)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	hs.SetReady(true)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: RouterService})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.GetStatus())
	}

	hs.Shutdown()
	resp, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ""})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status after shutdown = %v, want NOT_SERVING", resp.GetStatus())
	}
}
