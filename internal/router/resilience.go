package router

import (
	"slices"

	"github.com/eleven-am/mesh-router/internal/agent"
)

// RedundantPair finds the primary/backup pair with the highest combined
// confidence whose backup covers every capability of the primary.
func RedundantPair(candidates []*agent.Record) (primary, backup *agent.Record, ok bool) {
	var bestSum float64
	for _, p := range candidates {
		if p.ResilienceMode != agent.ModePrimary {
			continue
		}
		for _, b := range candidates {
			if b.ResilienceMode != agent.ModeBackup || !b.Capabilities.ContainsAll(p.Capabilities) {
				continue
			}
			sum := p.Confidence + b.Confidence
			if !ok || sum > bestSum {
				primary, backup, bestSum, ok = p, b, sum, true
			}
		}
	}
	return primary, backup, ok
}

func byConfidence(candidates []*agent.Record) []*agent.Record {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b *agent.Record) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return sorted
}

func (e *Engine) resilienceOptimized(candidates []*agent.Record, priority int) *agent.Record {
	if priority >= 9 {
		if primary, _, ok := RedundantPair(candidates); ok {
			return primary
		}
	}

	sorted := byConfidence(candidates)
	n := len(sorted)

	switch {
	case priority >= 7:
		return sorted[0]
	case priority >= 4:
		return sorted[e.pickIndex(min(3, n))]
	}
	return candidates[e.pickIndex(n)]
}
