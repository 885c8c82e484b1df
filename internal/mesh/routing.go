package mesh

import (
	"context"
	"errors"
	"fmt"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/eleven-am/mesh-router/internal/router"
	"github.com/eleven-am/mesh-router/internal/shared"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/eleven-am/mesh-router/internal/tracing"
	"go.opentelemetry.io/otel/trace"
)

type RouteRequest struct {
	TaskID               string
	RequiredCapabilities []string
	PreferredAgents      []string
	Priority             int
	IndustryTags         []string
	Strategy             string
	EdgeRequirements     map[string]float64
	Location             *agent.Location
}

type RouteResult struct {
	TaskID     string
	AgentID    string
	Strategy   router.Strategy
	Candidates int
}

// RouteTask picks one eligible agent for the task and records the decision.
// A failure returns *shared.RoutingError and leaves no state behind.
func (c *Coordinator) RouteTask(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	if req.TaskID == "" {
		req.TaskID = shared.NewID("task_")
	}

	ctx, span := c.tracer.Start(ctx, "mesh.RouteTask", trace.WithAttributes(
		tracing.StringAttr("task_id", req.TaskID),
		tracing.IntAttr("priority", req.Priority),
	))
	defer span.End()

	result, err := c.routeTask(ctx, req)
	if err != nil {
		tracing.RecordError(span, err)
		c.logger.Debug("routing failed", "task_id", req.TaskID, "error", err)
		return nil, err
	}

	span.SetAttributes(
		tracing.StringAttr("agent_id", result.AgentID),
		tracing.StringAttr("strategy", string(result.Strategy)),
		tracing.IntAttr("candidates", result.Candidates),
	)
	tracing.SetOK(span)

	c.logger.Debug("task routed",
		"task_id", result.TaskID,
		"agent_id", result.AgentID,
		"strategy", result.Strategy,
		"candidates", result.Candidates)
	c.emit(ctx, []events.Event{c.event(events.TaskRouted, result.AgentID, result.TaskID, map[string]any{
		"strategy":   string(result.Strategy),
		"priority":   req.Priority,
		"candidates": result.Candidates,
	})})
	return result, nil
}

func (c *Coordinator) routeTask(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	if req.Priority < task.MinPriority || req.Priority > task.MaxPriority {
		return nil, shared.NewRoutingError(req.TaskID, shared.ReasonInvalidPriority)
	}

	strategy := c.cfg.DefaultStrategy
	if req.Strategy != "" {
		parsed, err := router.ParseStrategy(req.Strategy)
		if err != nil {
			return nil, shared.NewRoutingError(req.TaskID, shared.ReasonStrategySelectionFailed)
		}
		strategy = parsed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.tasks.Get(ctx, req.TaskID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("task %s is %s: %w", req.TaskID, existing.Status, shared.ErrTaskAlreadyRouted)
	case !errors.Is(err, shared.ErrTaskNotFound):
		return nil, err
	}

	rec := &task.Record{
		ID:                   req.TaskID,
		Priority:             req.Priority,
		IndustryTags:         shared.StringSlice(req.IndustryTags).Clone(),
		RequiredCapabilities: shared.StringSlice(req.RequiredCapabilities).Clone(),
		EdgeRequirements:     shared.FloatMap(req.EdgeRequirements).Clone(),
		Location:             req.Location,
	}

	chosen, candidates, err := c.routeLocked(ctx, rec, req.PreferredAgents, strategy)
	if err != nil {
		return nil, err
	}
	return &RouteResult{
		TaskID:     rec.ID,
		AgentID:    chosen.ID,
		Strategy:   strategy,
		Candidates: candidates,
	}, nil
}

// routeLocked selects an agent for rec, assigns the task's load to it and
// writes rec to the ledger. The caller holds c.mu.
func (c *Coordinator) routeLocked(ctx context.Context, rec *task.Record, preferred []string, strategy router.Strategy) (*agent.Record, int, error) {
	agents, err := c.agents.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	eligible := router.Eligible(agents, rec.RequiredCapabilities, preferred)
	if len(eligible) == 0 {
		return nil, 0, shared.NewRoutingError(rec.ID, shared.ReasonNoEligibleAgents)
	}

	chosen, err := c.engine.Select(eligible, router.Request{
		Priority:         rec.Priority,
		IndustryTags:     rec.IndustryTags,
		Strategy:         strategy,
		EdgeRequirements: rec.EdgeRequirements,
		Location:         rec.Location,
	})
	if err != nil {
		if errors.Is(err, shared.ErrNoEligibleAgents) {
			return nil, 0, shared.NewRoutingError(rec.ID, shared.ReasonNoEligibleAgents)
		}
		return nil, 0, shared.NewRoutingError(rec.ID, shared.ReasonStrategySelectionFailed)
	}

	load := task.BaseLoad(rec.Priority)
	updated, err := c.agents.Update(ctx, chosen.ID, func(a *agent.Record) error {
		a.Assign(rec.ID, load)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	now := c.now()
	rec.AgentID = chosen.ID
	rec.Status = task.StatusRouted
	rec.Strategy = string(strategy)
	rec.BaseLoad = load
	rec.Success = nil
	rec.RoutedAt = now
	rec.UpdatedAt = now

	if err := c.tasks.Put(ctx, rec); err != nil {
		if _, rbErr := c.agents.Update(ctx, chosen.ID, func(a *agent.Record) error {
			a.Release(rec.ID, load)
			return nil
		}); rbErr != nil {
			c.logger.Error("failed to roll back agent load", "error", rbErr, "agent_id", chosen.ID, "task_id", rec.ID)
		}
		return nil, 0, err
	}

	c.history.Append(HistoryEntry{
		TaskID:     rec.ID,
		AgentID:    chosen.ID,
		Strategy:   strategy,
		Candidates: len(eligible),
		Timestamp:  now,
	})
	return updated, len(eligible), nil
}
