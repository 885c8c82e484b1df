package router

import "github.com/eleven-am/mesh-router/internal/agent"

// Specialization scores how well an agent's industry tags cover the task's.
func Specialization(a *agent.Record, tags []string) float64 {
	if len(tags) == 0 || len(a.IndustryTags) == 0 {
		return 50
	}

	matches := 0
	for _, tag := range tags {
		if a.IndustryTags.Contains(tag) {
			matches++
		}
	}

	switch matches {
	case len(tags):
		return 100
	case 0:
		return 30
	}
	return 50 + 50*float64(matches)/float64(len(tags))
}

func (e *Engine) BalancedScore(a *agent.Record, tags []string) float64 {
	return e.weights.Load*(100-a.CurrentLoad) +
		e.weights.Specialization*Specialization(a, tags) +
		e.weights.Resilience*(a.Confidence*100)
}

func (e *Engine) balanced(candidates []*agent.Record, tags []string) *agent.Record {
	var best *agent.Record
	var bestScore float64
	for _, a := range candidates {
		score := e.BalancedScore(a, tags)
		if best == nil || score > bestScore {
			best = a
			bestScore = score
		}
	}
	return best
}
