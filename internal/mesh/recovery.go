package mesh

import (
	"context"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/eleven-am/mesh-router/internal/router"
	"github.com/eleven-am/mesh-router/internal/shared"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/eleven-am/mesh-router/internal/tracing"
	"go.opentelemetry.io/otel/trace"
)

type RecoveryResult struct {
	AgentID  string
	Rerouted []string
	Failed   []string
}

// HandleAgentFailure marks the agent failed, drains its tasks and re-routes
// each of them with the resilience-optimized strategy. Tasks that cannot be
// placed are marked failed in the ledger and reported in Failed. Calling it
// again after recovery has already run for the agent is a no-op.
func (c *Coordinator) HandleAgentFailure(ctx context.Context, agentID string) (*RecoveryResult, error) {
	ctx, span := c.tracer.Start(ctx, "mesh.HandleAgentFailure", trace.WithAttributes(
		tracing.StringAttr("agent_id", agentID),
	))
	defer span.End()

	result, evs, err := c.recover(ctx, agentID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		tracing.IntAttr("rerouted", len(result.Rerouted)),
		tracing.IntAttr("failed", len(result.Failed)),
	)
	tracing.SetOK(span)

	c.emit(ctx, evs)
	return result, nil
}

func (c *Coordinator) recover(ctx context.Context, agentID string) (*RecoveryResult, []events.Event, error) {
	result := &RecoveryResult{AgentID: agentID, Rerouted: []string{}, Failed: []string{}}

	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.agents.Get(ctx, agentID)
	if err != nil {
		return nil, nil, err
	}
	if current.Status == agent.StatusFailed && current.RecoveredAt != nil {
		return result, nil, nil
	}

	var drained []string
	if _, err := c.agents.Update(ctx, agentID, func(a *agent.Record) error {
		drained = a.MarkFailed(c.now())
		return nil
	}); err != nil {
		return nil, nil, err
	}

	evs := []events.Event{c.event(events.AgentFailed, agentID, "", map[string]any{
		"drained": len(drained),
	})}

	for _, taskID := range drained {
		ev, ok := c.rerouteLocked(ctx, agentID, taskID)
		if ok {
			result.Rerouted = append(result.Rerouted, taskID)
		} else {
			result.Failed = append(result.Failed, taskID)
		}
		if ev != nil {
			evs = append(evs, *ev)
		}
	}

	c.logger.Info("agent failure handled",
		"agent_id", agentID,
		"rerouted", len(result.Rerouted),
		"failed", len(result.Failed))
	return result, evs, nil
}

func (c *Coordinator) rerouteLocked(ctx context.Context, failedAgent, taskID string) (*events.Event, bool) {
	prev, err := c.tasks.Get(ctx, taskID)
	if err != nil {
		c.logger.Warn("drained task missing from ledger", "error", err, "agent_id", failedAgent, "task_id", taskID)
		return nil, false
	}

	next := prev.Clone()
	next.PreviousAgentIDs = append(next.PreviousAgentIDs, failedAgent)
	next.RerouteCount++

	chosen, candidates, err := c.routeLocked(ctx, next, nil, router.ResilienceOptimized)
	if err == nil {
		ev := c.event(events.TaskRerouted, chosen.ID, taskID, map[string]any{
			"previous_agent_id": failedAgent,
			"reroute_count":     next.RerouteCount,
			"candidates":        candidates,
		})
		return &ev, true
	}

	c.logger.Warn("failed to reroute task",
		"error", err,
		"agent_id", failedAgent,
		"task_id", taskID,
		"reason", shared.ReasonOf(err))

	if _, uerr := c.tasks.Update(ctx, taskID, func(r *task.Record) error {
		r.Status = task.StatusFailed
		r.PreviousAgentIDs = next.PreviousAgentIDs
		r.UpdatedAt = c.now()
		return nil
	}); uerr != nil {
		c.logger.Error("failed to mark orphaned task", "error", uerr, "task_id", taskID)
	}

	ev := c.event(events.TaskOrphaned, failedAgent, taskID, map[string]any{
		"reason": string(shared.ReasonOf(err)),
	})
	return &ev, false
}
