package health

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/mesh"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type RuntimeStats struct {
	Goroutines         int    `json:"goroutines"`
	MemoryAllocMB      uint64 `json:"memory_alloc_mb"`
	MemoryTotalAllocMB uint64 `json:"memory_total_alloc_mb"`
	MemorySysMB        uint64 `json:"memory_sys_mb"`
	NumGC              uint32 `json:"num_gc"`
}

type AgentStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Unhealthy int `json:"unhealthy"`
	Failed    int `json:"failed"`
}

type TaskStats struct {
	Total   int64   `json:"total"`
	AvgLoad float64 `json:"avg_load"`
}

type RequestStats struct {
	TotalRequests     uint64 `json:"total_requests"`
	ActiveConnections int64  `json:"active_connections"`
}

type Stats struct {
	Agents   AgentStats   `json:"agents"`
	Tasks    TaskStats    `json:"tasks"`
	Requests RequestStats `json:"requests"`
	Runtime  RuntimeStats `json:"runtime"`
}

type HealthResponse struct {
	Status        Status                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	Version       string                     `json:"version"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Stats         Stats                      `json:"stats"`
	Components    map[string]ComponentStatus `json:"components"`
}

type AgentDetail struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	CurrentLoad   float64   `json:"current_load"`
	Capacity      float64   `json:"capacity"`
	ActiveTasks   int       `json:"active_tasks"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	SilentSeconds int64     `json:"silent_seconds"`
}

type AgentsResponse struct {
	Total  int           `json:"total"`
	Active int           `json:"active"`
	Agents []AgentDetail `json:"agents"`
}

// BreakerStater reports the state of the event publisher's circuit breaker.
type BreakerStater interface {
	State() gobreaker.State
}

// Handler serves liveness and readiness. db and redis may be nil when the
// configured backend does not use them; nil components are not checked.
type Handler struct {
	db        *gorm.DB
	redis     *redis.Client
	coord     *mesh.Coordinator
	breaker   BreakerStater
	version   string
	startTime time.Time
	now       func() time.Time

	totalRequests     uint64
	activeConnections int64
}

func NewHandler(db *gorm.DB, redis *redis.Client, coord *mesh.Coordinator, breaker BreakerStater, version string) *Handler {
	return &Handler{
		db:        db,
		redis:     redis,
		coord:     coord,
		breaker:   breaker,
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Liveness)
	e.GET("/health/ready", h.Readiness)
	e.GET("/health/agents", h.Agents)
}

func (h *Handler) IncrementRequests() {
	atomic.AddUint64(&h.totalRequests, 1)
}

func (h *Handler) IncrementConnections() {
	atomic.AddInt64(&h.activeConnections, 1)
}

func (h *Handler) DecrementConnections() {
	atomic.AddInt64(&h.activeConnections, -1)
}

func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type check struct {
	name  string
	check func(context.Context) ComponentStatus
}

func (h *Handler) checks() []check {
	var checks []check
	if h.db != nil {
		checks = append(checks, check{"database", h.checkDatabase})
	}
	if h.redis != nil {
		checks = append(checks, check{"redis", h.checkRedis})
	}
	if h.breaker != nil {
		checks = append(checks, check{"events", h.checkEvents})
	}
	return checks
}

func (h *Handler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	components := make(map[string]ComponentStatus)
	var mu sync.Mutex
	var wg sync.WaitGroup

	checks := h.checks()
	wg.Add(len(checks))
	for _, ch := range checks {
		go func(name string, fn func(context.Context) ComponentStatus) {
			defer wg.Done()
			status := fn(ctx)
			mu.Lock()
			components[name] = status
			mu.Unlock()
		}(ch.name, ch.check)
	}
	wg.Wait()

	start := time.Now()
	var stats Stats
	m, err := h.coord.GetRoutingMetrics(ctx)
	if err != nil {
		components["mesh"] = ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "metrics unavailable",
		}
	} else {
		components["mesh"] = evaluateMesh(m, time.Since(start).Milliseconds())
		stats.Agents = AgentStats{
			Total:     m.TotalAgents,
			Active:    m.ActiveAgents,
			Unhealthy: m.UnhealthyAgents,
			Failed:    m.FailedAgents,
		}
		stats.Tasks = TaskStats{Total: m.TotalTasks, AvgLoad: m.AvgLoad}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats.Requests = RequestStats{
		TotalRequests:     atomic.LoadUint64(&h.totalRequests),
		ActiveConnections: atomic.LoadInt64(&h.activeConnections),
	}
	stats.Runtime = RuntimeStats{
		Goroutines:         runtime.NumGoroutine(),
		MemoryAllocMB:      memStats.Alloc / 1024 / 1024,
		MemoryTotalAllocMB: memStats.TotalAlloc / 1024 / 1024,
		MemorySysMB:        memStats.Sys / 1024 / 1024,
		NumGC:              memStats.NumGC,
	}

	overallStatus := computeOverallStatus(components)
	resp := HealthResponse{
		Status:        overallStatus,
		Timestamp:     h.now().UTC(),
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Stats:         stats,
		Components:    components,
	}

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, resp)
}

func (h *Handler) Agents(c echo.Context) error {
	agents, err := h.coord.ListAgents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "registry unavailable")
	}

	now := h.now()
	resp := AgentsResponse{Total: len(agents), Agents: make([]AgentDetail, 0, len(agents))}
	for _, a := range agents {
		if a.Status == agent.StatusActive {
			resp.Active++
		}
		resp.Agents = append(resp.Agents, AgentDetail{
			ID:            a.ID,
			Status:        string(a.Status),
			CurrentLoad:   a.CurrentLoad,
			Capacity:      a.Capacity,
			ActiveTasks:   len(a.TaskIDs),
			LastHeartbeat: a.LastHeartbeat.UTC(),
			SilentSeconds: int64(now.Sub(a.LastHeartbeat).Seconds()),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// evaluateMesh is degraded while no agent can take work.
func evaluateMesh(m *mesh.Metrics, latency int64) ComponentStatus {
	if m.ActiveAgents == 0 {
		return ComponentStatus{Status: StatusDegraded, LatencyMs: latency, Error: "no active agents"}
	}
	return ComponentStatus{Status: StatusHealthy, LatencyMs: latency}
}

func (h *Handler) checkDatabase(ctx context.Context) ComponentStatus {
	start := time.Now()

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "failed to get underlying db",
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    evaluateDBStats(sqlDB.Stats()),
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func evaluateDBStats(stats sql.DBStats) Status {
	if stats.OpenConnections >= stats.MaxOpenConnections && stats.MaxOpenConnections > 0 {
		return StatusDegraded
	}
	return StatusHealthy
}

func (h *Handler) checkRedis(ctx context.Context) ComponentStatus {
	start := time.Now()
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func (h *Handler) checkEvents(ctx context.Context) ComponentStatus {
	switch h.breaker.State() {
	case gobreaker.StateOpen:
		return ComponentStatus{Status: StatusDegraded, Error: "event publisher circuit open"}
	case gobreaker.StateHalfOpen:
		return ComponentStatus{Status: StatusDegraded, Error: "event publisher recovering"}
	}
	return ComponentStatus{Status: StatusHealthy}
}

func computeOverallStatus(components map[string]ComponentStatus) Status {
	criticalComponents := []string{"database", "redis"}

	for _, name := range criticalComponents {
		if status, ok := components[name]; ok && status.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
	}

	hasUnhealthy := false
	hasDegraded := false
	for _, status := range components {
		if status.Status == StatusUnhealthy {
			hasUnhealthy = true
		}
		if status.Status == StatusDegraded {
			hasDegraded = true
		}
	}

	if hasUnhealthy || hasDegraded {
		return StatusDegraded
	}

	return StatusHealthy
}
