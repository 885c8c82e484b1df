package mesh

import (
	"context"

	"github.com/eleven-am/mesh-router/internal/agent"
)

type AgentSnapshot struct {
	ID           string
	Status       agent.Status
	CurrentLoad  float64
	Capacity     float64
	Confidence   float64
	AvgLatencyMs *float64
	ActiveTasks  int
}

type Metrics struct {
	TotalTasks       int64
	TotalAgents      int
	ActiveAgents     int
	UnhealthyAgents  int
	FailedAgents     int
	AvgLoad          float64
	StrategyCounts   map[string]int
	RoutingDecisions int
	AvgCandidates    float64
	Agents           []AgentSnapshot
}

// GetRoutingMetrics derives statistics from the registry, the ledger and the
// routing history. AvgLoad averages over every registered agent.
func (c *Coordinator) GetRoutingMetrics(ctx context.Context) (*Metrics, error) {
	c.mu.RLock()
	agents, err := c.agents.List(ctx)
	if err != nil {
		c.mu.RUnlock()
		return nil, err
	}
	total, err := c.tasks.Count(ctx)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		TotalTasks:     total,
		TotalAgents:    len(agents),
		StrategyCounts: make(map[string]int),
		Agents:         make([]AgentSnapshot, 0, len(agents)),
	}

	var load float64
	for _, a := range agents {
		switch a.Status {
		case agent.StatusActive:
			m.ActiveAgents++
		case agent.StatusUnhealthy:
			m.UnhealthyAgents++
		case agent.StatusFailed:
			m.FailedAgents++
		}
		load += a.CurrentLoad

		snap := AgentSnapshot{
			ID:          a.ID,
			Status:      a.Status,
			CurrentLoad: a.CurrentLoad,
			Capacity:    a.Capacity,
			Confidence:  a.Confidence,
			ActiveTasks: len(a.TaskIDs),
		}
		if avg, ok := a.Latency.Average(); ok {
			snap.AvgLatencyMs = &avg
		}
		m.Agents = append(m.Agents, snap)
	}
	if len(agents) > 0 {
		m.AvgLoad = load / float64(len(agents))
	}

	entries := c.history.Snapshot()
	var candidates int
	for _, e := range entries {
		m.StrategyCounts[string(e.Strategy)]++
		candidates += e.Candidates
	}
	m.RoutingDecisions = len(entries)
	if len(entries) > 0 {
		m.AvgCandidates = float64(candidates) / float64(len(entries))
	}
	return m, nil
}
