package router

import (
	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/shared"
)

// Engine picks one agent per request. It is not safe for concurrent use; the
// caller serializes access together with the registry mutation that follows.
type Engine struct {
	weights Weights
	rng     Random
}

func NewEngine(weights Weights, rng Random) *Engine {
	return &Engine{weights: weights, rng: rng}
}

// Eligible filters agents in registry order. A non-empty preferred list
// restricts the result to those agents unless none of them qualify.
func Eligible(agents []*agent.Record, required, preferred []string) []*agent.Record {
	eligible := make([]*agent.Record, 0, len(agents))
	for _, a := range agents {
		if a.Status == agent.StatusActive && a.Capabilities.ContainsAll(required) {
			eligible = append(eligible, a)
		}
	}
	if len(preferred) == 0 {
		return eligible
	}

	wanted := shared.StringSlice(preferred)
	restricted := make([]*agent.Record, 0, len(preferred))
	for _, a := range eligible {
		if wanted.Contains(a.ID) {
			restricted = append(restricted, a)
		}
	}
	if len(restricted) == 0 {
		return eligible
	}
	return restricted
}

func (e *Engine) Select(candidates []*agent.Record, req Request) (*agent.Record, error) {
	if len(candidates) == 0 {
		return nil, shared.ErrNoEligibleAgents
	}

	var chosen *agent.Record
	switch req.Strategy {
	case Balanced:
		chosen = e.balanced(candidates, req.IndustryTags)
	case LatencyOptimized:
		chosen = e.latencyOptimized(candidates, req.Priority)
	case ResilienceOptimized:
		chosen = e.resilienceOptimized(candidates, req.Priority)
	case EdgeAware:
		chosen = e.edgeAware(candidates, req)
	default:
		return nil, shared.ErrStrategySelectionFailed
	}

	if chosen == nil {
		return nil, shared.ErrStrategySelectionFailed
	}
	return chosen, nil
}

// pickIndex returns a uniform index in [0, n).
func (e *Engine) pickIndex(n int) int {
	if n <= 1 {
		return 0
	}
	idx := e.rng.Intn(n)
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}
