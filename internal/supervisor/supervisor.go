package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/mesh-router/internal/mesh"
	"github.com/robfig/cron/v3"
)

const (
	DefaultSchedule = "@every 15s"
	runTimeout      = 30 * time.Second
)

type Config struct {
	// Schedule is a cron expression, a descriptor such as "@every 15s", or a
	// plain duration.
	Schedule string
	// EscalateAfter fails agents silent for longer than this. Zero disables
	// escalation.
	EscalateAfter time.Duration
}

type Mesh interface {
	CheckAgentHealth(ctx context.Context) ([]string, error)
	SilentFor(ctx context.Context, d time.Duration) ([]string, error)
	HandleAgentFailure(ctx context.Context, agentID string) (*mesh.RecoveryResult, error)
	GetRoutingMetrics(ctx context.Context) (*mesh.Metrics, error)
}

type Readiness interface {
	SetReady(ready bool)
}

type Report struct {
	Unhealthy []string
	Escalated []*mesh.RecoveryResult
	Ready     bool
}

// Supervisor drives the periodic health scan that the coordinator itself
// never schedules.
type Supervisor struct {
	cron      *cron.Cron
	schedule  cron.Schedule
	mesh      Mesh
	readiness Readiness
	cfg       Config
	logger    *slog.Logger

	mu      sync.Mutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(cfg Config, m Mesh, readiness Readiness, logger *slog.Logger) (*Supervisor, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	schedule, err := parseSchedule(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("supervisor: invalid schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.EscalateAfter < 0 {
		return nil, fmt.Errorf("supervisor: escalation threshold must not be negative")
	}

	return &Supervisor{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule:  schedule,
		mesh:      m,
		readiness: readiness,
		cfg:       cfg,
		logger:    logger.With("component", "supervisor"),
	}, nil
}

// RunOnce performs one health scan, escalates long-silent agents and
// refreshes readiness. Escalation failures are logged and do not stop the
// run.
func (s *Supervisor) RunOnce(ctx context.Context) (*Report, error) {
	unhealthy, err := s.mesh.CheckAgentHealth(ctx)
	if err != nil {
		return nil, fmt.Errorf("health scan: %w", err)
	}
	report := &Report{Unhealthy: unhealthy}

	if s.cfg.EscalateAfter > 0 {
		silent, err := s.mesh.SilentFor(ctx, s.cfg.EscalateAfter)
		if err != nil {
			return nil, fmt.Errorf("escalation scan: %w", err)
		}
		for _, id := range silent {
			res, err := s.mesh.HandleAgentFailure(ctx, id)
			if err != nil {
				s.logger.Error("failed to escalate silent agent", "error", err, "agent_id", id)
				continue
			}
			s.logger.Warn("escalated silent agent", "agent_id", id, "rerouted", len(res.Rerouted), "failed", len(res.Failed))
			report.Escalated = append(report.Escalated, res)
		}
	}

	m, err := s.mesh.GetRoutingMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	report.Ready = m.ActiveAgents > 0
	if s.readiness != nil {
		s.readiness.SetReady(report.Ready)
	}

	return report, nil
}

func (s *Supervisor) run() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx == nil {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.RunOnce(runCtx)
	if err != nil {
		s.logger.Warn("health scan failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("health scan completed",
		"unhealthy", len(report.Unhealthy),
		"escalated", len(report.Escalated),
		"ready", report.Ready,
		"duration", time.Since(start))
}

// Start runs a first scan synchronously, then schedules the rest.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.started = true
	s.mu.Unlock()

	s.run()
	s.cron.Schedule(s.schedule, cron.FuncJob(s.run))
	s.cron.Start()
	s.logger.Info("supervisor started", "schedule", s.cfg.Schedule, "escalate_after", s.cfg.EscalateAfter)
	return nil
}

// Stop cancels in-flight scans and waits for them to return.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	s.ctx = nil
	s.started = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	return nil
}

func parseSchedule(schedule string) (cron.Schedule, error) {
	if sched, err := cron.ParseStandard(schedule); err == nil {
		return sched, nil
	}

	dur, err := time.ParseDuration(schedule)
	if err != nil {
		return nil, fmt.Errorf("not a valid cron expression or duration")
	}
	if dur < time.Second {
		return nil, fmt.Errorf("interval must be at least one second")
	}
	return cron.Every(dur), nil
}
