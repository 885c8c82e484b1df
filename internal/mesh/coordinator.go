package mesh

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/eleven-am/mesh-router/internal/router"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/eleven-am/mesh-router/internal/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Coordinator owns the agent registry and task ledger. A single RWMutex
// sequences every read-then-mutate across both stores; reads share it.
type Coordinator struct {
	mu      sync.RWMutex
	cfg     Config
	agents  agent.Store
	tasks   task.Ledger
	engine  *router.Engine
	history *History
	events  events.Publisher
	tracer  trace.Tracer
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Coordinator)

func WithRandom(rng router.Random) Option {
	return func(c *Coordinator) {
		c.engine = router.NewEngine(c.cfg.Weights, rng)
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Coordinator) { c.events = p }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l.With("component", "mesh") }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(cfg Config, agents agent.Store, tasks task.Ledger, opts ...Option) *Coordinator {
	cfg = cfg.withDefaults()
	c := &Coordinator{
		cfg:     cfg,
		agents:  agents,
		tasks:   tasks,
		engine:  router.NewEngine(cfg.Weights, rand.New(rand.NewSource(time.Now().UnixNano()))),
		history: NewHistory(cfg.HistoryLimit),
		events:  events.Noop{},
		tracer:  tracing.Tracer(),
		logger:  slog.Default().With("component", "mesh"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Config() Config {
	return c.cfg
}

func (c *Coordinator) emit(ctx context.Context, evs []events.Event) {
	for _, ev := range evs {
		if err := c.events.Publish(ctx, ev); err != nil {
			c.logger.Warn("failed to publish event", "error", err, "type", ev.Type, "agent_id", ev.AgentID, "task_id", ev.TaskID)
		}
	}
}

func (c *Coordinator) event(t events.Type, agentID, taskID string, data map[string]any) events.Event {
	return events.New(t, agentID, taskID, c.now(), data)
}
