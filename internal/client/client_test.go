package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/dto"
	"github.com/eleven-am/mesh-router/internal/mesh"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/labstack/echo/v4"
)

func newTestRouter(t *testing.T) (*httptest.Server, *mesh.Coordinator) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord := mesh.NewCoordinator(mesh.DefaultConfig(), agent.NewMemoryStore(), task.NewMemoryLedger(), mesh.WithLogger(log))

	e := echo.New()
	mesh.NewHandler(coord, log).RegisterRoutes(e.Group("/v1"))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, coord
}

func TestClient_AgentLifecycle(t *testing.T) {
	srv, coord := newTestRouter(t)
	ctx := context.Background()
	c := New(srv.URL, "worker-1")

	reg, err := c.Register(ctx, dto.RegisterAgentRequest{Capabilities: []string{"nlp"}, Capacity: 50})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.ID != "worker-1" || reg.Status != "active" {
		t.Errorf("unexpected registration %+v", reg)
	}

	if _, err := c.Heartbeat(ctx); err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}

	latency := 12.5
	st, err := c.ReportStatus(ctx, dto.UpdateAgentStatusRequest{Status: "active", LatencyMs: &latency})
	if err != nil {
		t.Fatalf("ReportStatus() error = %v", err)
	}
	if st.AvgLatencyMs == nil || *st.AvgLatencyMs != 12.5 {
		t.Errorf("expected latency sample, got %+v", st)
	}

	if _, err := coord.RouteTask(ctx, mesh.RouteRequest{TaskID: "t1", Priority: 5}); err != nil {
		t.Fatalf("RouteTask() error = %v", err)
	}
	ok := true
	tk, err := c.UpdateTask(ctx, "t1", dto.UpdateTaskStatusRequest{Status: "completed", OutcomeSuccess: &ok})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if tk.Status != "completed" || tk.AgentID != "worker-1" {
		t.Errorf("unexpected task %+v", tk)
	}
}

func TestClient_Errors(t *testing.T) {
	srv, _ := newTestRouter(t)
	ctx := context.Background()
	c := New(srv.URL, "worker-1")

	_, err := c.Heartbeat(ctx)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.API.Code != "agent_not_found" {
		t.Errorf("unexpected error %+v", apiErr)
	}

	c.Register(ctx, dto.RegisterAgentRequest{})
	_, err = c.Register(ctx, dto.RegisterAgentRequest{})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestClient_SendsAgentHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Agent-ID")
		w.Write([]byte(`{"id":"worker-9"}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, "worker-9").Heartbeat(context.Background()); err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	if got != "worker-9" {
		t.Errorf("X-Agent-ID = %q, want worker-9", got)
	}
}
