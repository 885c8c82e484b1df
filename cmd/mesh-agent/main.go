package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/eleven-am/mesh-router/internal/client"
	"github.com/eleven-am/mesh-router/internal/dto"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	agentID := getEnv("AGENT_ID", "agent-"+uuid.NewString()[:8])
	c := client.New(getEnv("MESH_URL", "http://localhost:8080"), agentID)
	logger = logger.With("agent_id", agentID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := dto.RegisterAgentRequest{
		Capabilities:   splitList(getEnv("AGENT_CAPABILITIES", "text_generation")),
		Capacity:       getEnvFloat("AGENT_CAPACITY", 100),
		ResilienceMode: getEnv("AGENT_RESILIENCE_MODE", "standard"),
		IndustryTags:   splitList(getEnv("AGENT_INDUSTRY_TAGS", "")),
	}
	if region := getEnv("AGENT_REGION", ""); region != "" {
		req.Location = &dto.Location{
			Region:    region,
			Country:   getEnv("AGENT_COUNTRY", ""),
			Continent: getEnv("AGENT_CONTINENT", ""),
		}
	}
	if _, err := c.Register(ctx, req); err != nil {
		logger.Error("failed to register", "error", err)
		os.Exit(1)
	}
	logger.Info("registered with mesh", "capabilities", req.Capabilities)

	go heartbeatLoop(ctx, c, getEnvDuration("HEARTBEAT_INTERVAL", 20*time.Second), logger)

	rdb := redis.NewClient(&redis.Options{Addr: getEnv("REDIS_ADDR", "localhost:6379")})
	defer rdb.Close()

	w := &worker{client: c, logger: logger, maxWork: getEnvDuration("MAX_WORK", 2*time.Second)}
	err := events.Subscribe(ctx, rdb, getEnv("EVENTS_CHANNEL", events.DefaultChannel), logger, func(ev events.Event) {
		if ev.AgentID != agentID {
			return
		}
		switch ev.Type {
		case events.TaskRouted, events.TaskRerouted:
			go w.handle(ctx, ev.TaskID)
		}
	})
	if err != nil {
		logger.Error("event subscription ended", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func heartbeatLoop(ctx context.Context, c *client.Client, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Heartbeat(ctx); err != nil {
				logger.Warn("heartbeat failed", "error", err)
			}
		}
	}
}

type worker struct {
	client  *client.Client
	logger  *slog.Logger
	maxWork time.Duration
}

// handle simulates the task and reports its latency and outcome back.
func (w *worker) handle(ctx context.Context, taskID string) {
	log := w.logger.With("task_id", taskID)

	if _, err := w.client.UpdateTask(ctx, taskID, dto.UpdateTaskStatusRequest{Status: "running"}); err != nil {
		log.Warn("failed to mark task running", "error", err)
		return
	}

	start := time.Now()
	select {
	case <-ctx.Done():
		return
	case <-time.After(time.Duration(rand.Int63n(int64(w.maxWork) + 1))):
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if _, err := w.client.ReportStatus(ctx, dto.UpdateAgentStatusRequest{Status: "active", LatencyMs: &elapsed}); err != nil {
		log.Warn("failed to report latency", "error", err)
	}

	ok := true
	if _, err := w.client.UpdateTask(ctx, taskID, dto.UpdateTaskStatusRequest{Status: "completed", OutcomeSuccess: &ok}); err != nil {
		log.Warn("failed to complete task", "error", err)
		return
	}
	log.Info("task completed", "latency_ms", elapsed)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
