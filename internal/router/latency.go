package router

import (
	"math"
	"slices"

	"github.com/eleven-am/mesh-router/internal/agent"
)

func averageLatency(a *agent.Record) float64 {
	if avg, ok := a.Latency.Average(); ok {
		return avg
	}
	return math.Inf(1)
}

// byLatency orders candidates fastest first. Agents without samples sort last
// and ties keep registry order.
func byLatency(candidates []*agent.Record) []*agent.Record {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b *agent.Record) int {
		la, lb := averageLatency(a), averageLatency(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
	return sorted
}

func (e *Engine) latencyOptimized(candidates []*agent.Record, priority int) *agent.Record {
	sorted := byLatency(candidates)
	n := len(sorted)

	switch {
	case priority >= 8:
		return sorted[0]
	case priority >= 5:
		return sorted[e.pickIndex(min(3, n))]
	}

	// weight of rank r is n-r
	total := float64(n*(n+1)) / 2
	target := e.rng.Float64() * total
	var cumulative float64
	for rank, a := range sorted {
		cumulative += float64(n - rank)
		if target < cumulative {
			return a
		}
	}
	return sorted[n-1]
}
