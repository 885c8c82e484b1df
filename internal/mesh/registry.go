package mesh

import (
	"context"
	"fmt"
	"strings"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/eleven-am/mesh-router/internal/shared"
)

type Registration struct {
	ID               string
	Capabilities     []string
	Capacity         float64
	ResilienceMode   string
	EdgeProfile      map[string]float64
	IntelligenceRole string
	CoordinationRole string
	IndustryTags     []string
	Location         *agent.Location
}

type StatusUpdate struct {
	AgentID   string
	Status    string
	Load      *float64
	LatencyMs *float64
}

func (r Registration) validate() (agent.ResilienceMode, error) {
	if strings.TrimSpace(r.ID) == "" {
		return "", fmt.Errorf("agent id is required: %w", shared.ErrInvalidInput)
	}
	if r.Capacity < 0 {
		return "", fmt.Errorf("capacity must not be negative: %w", shared.ErrInvalidInput)
	}
	if !shared.StringSlice(r.Capabilities).ContainsAll(r.IndustryTags) {
		return "", fmt.Errorf("industry tags must be a subset of capabilities: %w", shared.ErrInvalidInput)
	}
	return agent.ParseResilienceMode(r.ResilienceMode)
}

func (c *Coordinator) RegisterAgent(ctx context.Context, reg Registration) (*agent.Record, error) {
	mode, err := reg.validate()
	if err != nil {
		return nil, err
	}

	now := c.now()
	rec := &agent.Record{
		ID:               reg.ID,
		Status:           agent.StatusActive,
		Capabilities:     shared.StringSlice(reg.Capabilities).Clone(),
		Capacity:         reg.Capacity,
		IntelligenceRole: reg.IntelligenceRole,
		CoordinationRole: reg.CoordinationRole,
		ResilienceMode:   mode,
		EdgeProfile:      shared.FloatMap(reg.EdgeProfile).Clone(),
		IndustryTags:     shared.StringSlice(reg.IndustryTags).Clone(),
		Location:         reg.Location,
		Confidence:       agent.InitialConfidence,
		RegisteredAt:     now,
		LastHeartbeat:    now,
	}

	c.mu.Lock()
	err = c.agents.Create(ctx, rec)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.logger.Info("agent registered",
		"agent_id", rec.ID,
		"capabilities", []string(rec.Capabilities),
		"resilience_mode", rec.ResilienceMode)
	c.emit(ctx, []events.Event{c.event(events.AgentRegistered, rec.ID, "", map[string]any{
		"capabilities":    []string(rec.Capabilities),
		"resilience_mode": string(rec.ResilienceMode),
	})})
	return rec.Clone(), nil
}

// Heartbeat refreshes the agent's heartbeat. An unhealthy agent becomes
// active again; a failed agent stays failed.
func (c *Coordinator) Heartbeat(ctx context.Context, agentID string) (*agent.Record, error) {
	revived := false

	c.mu.Lock()
	rec, err := c.agents.Update(ctx, agentID, func(r *agent.Record) error {
		r.LastHeartbeat = c.now()
		if r.Status == agent.StatusUnhealthy {
			r.Status = agent.StatusActive
			revived = true
		}
		return nil
	})
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if revived {
		c.logger.Info("agent recovered", "agent_id", agentID)
		c.emit(ctx, []events.Event{c.event(events.AgentUpdated, agentID, "", map[string]any{"status": string(rec.Status)})})
	}
	return rec, nil
}

func (c *Coordinator) UpdateAgentStatus(ctx context.Context, upd StatusUpdate) (*agent.Record, error) {
	status, err := agent.ParseStatus(upd.Status)
	if err != nil {
		return nil, err
	}
	if upd.Load != nil && *upd.Load < 0 {
		return nil, fmt.Errorf("load must not be negative: %w", shared.ErrInvalidInput)
	}
	if upd.LatencyMs != nil && *upd.LatencyMs < 0 {
		return nil, fmt.Errorf("latency must not be negative: %w", shared.ErrInvalidInput)
	}

	c.mu.Lock()
	rec, err := c.agents.Update(ctx, upd.AgentID, func(r *agent.Record) error {
		r.Status = status
		if status != agent.StatusFailed {
			r.RecoveredAt = nil
		}
		if upd.Load != nil {
			r.CurrentLoad = *upd.Load
		}
		if upd.LatencyMs != nil {
			r.Latency.Add(*upd.LatencyMs)
		}
		return nil
	})
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	data := map[string]any{"status": string(rec.Status), "current_load": rec.CurrentLoad}
	if avg, ok := rec.Latency.Average(); ok {
		data["avg_latency_ms"] = avg
	}
	c.emit(ctx, []events.Event{c.event(events.AgentUpdated, rec.ID, "", data)})
	return rec, nil
}

func (c *Coordinator) GetAgent(ctx context.Context, agentID string) (*agent.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.agents.Get(ctx, agentID)
}

func (c *Coordinator) ListAgents(ctx context.Context) ([]*agent.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.agents.List(ctx)
}
