package mesh

import (
	"context"
	"time"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
)

// CheckAgentHealth flags every non-failed agent whose last heartbeat is older
// than the configured threshold and returns their ids. Agents already
// unhealthy are reported again while they stay silent.
func (c *Coordinator) CheckAgentHealth(ctx context.Context) ([]string, error) {
	var (
		stale   []string
		flagged []events.Event
	)

	c.mu.Lock()
	agents, err := c.agents.List(ctx)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	now := c.now()
	for _, a := range agents {
		if a.Status == agent.StatusFailed || now.Sub(a.LastHeartbeat) <= c.cfg.HeartbeatThreshold {
			continue
		}
		stale = append(stale, a.ID)
		if a.Status == agent.StatusUnhealthy {
			continue
		}

		if _, err := c.agents.Update(ctx, a.ID, func(r *agent.Record) error {
			r.Status = agent.StatusUnhealthy
			return nil
		}); err != nil {
			c.mu.Unlock()
			return nil, err
		}
		flagged = append(flagged, c.event(events.AgentUnhealthy, a.ID, "", map[string]any{
			"last_heartbeat": a.LastHeartbeat,
		}))
		c.logger.Warn("agent marked unhealthy", "agent_id", a.ID, "last_heartbeat", a.LastHeartbeat)
	}
	c.mu.Unlock()

	c.emit(ctx, flagged)
	if stale == nil {
		stale = []string{}
	}
	return stale, nil
}

// SilentFor returns the ids of non-failed agents whose last heartbeat is
// older than d.
func (c *Coordinator) SilentFor(ctx context.Context, d time.Duration) ([]string, error) {
	c.mu.RLock()
	agents, err := c.agents.List(ctx)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	now := c.now()
	var out []string
	for _, a := range agents {
		if a.Status != agent.StatusFailed && now.Sub(a.LastHeartbeat) > d {
			out = append(out, a.ID)
		}
	}
	return out, nil
}
