package router

import "github.com/eleven-am/mesh-router/internal/agent"

// Proximity scores how close a candidate is to the requested location.
func Proximity(candidate, target *agent.Location) float64 {
	if candidate == nil || *candidate == (agent.Location{}) {
		return 0
	}
	switch {
	case target.Region != "" && candidate.Region == target.Region:
		return 1.0
	case target.Country != "" && candidate.Country == target.Country:
		return 0.8
	case target.Continent != "" && candidate.Continent == target.Continent:
		return 0.5
	}
	return 0.2
}

func meetsEdgeRequirements(a *agent.Record, requirements map[string]float64) bool {
	for key, want := range requirements {
		have, ok := a.EdgeProfile[key]
		if !ok || have < want {
			return false
		}
	}
	return true
}

func (e *Engine) edgeAware(candidates []*agent.Record, req Request) *agent.Record {
	if len(req.EdgeRequirements) == 0 {
		return e.balanced(candidates, req.IndustryTags)
	}

	qualifying := make([]*agent.Record, 0, len(candidates))
	for _, a := range candidates {
		if meetsEdgeRequirements(a, req.EdgeRequirements) {
			qualifying = append(qualifying, a)
		}
	}
	if len(qualifying) == 0 {
		return e.balanced(candidates, req.IndustryTags)
	}

	if req.Location == nil {
		return qualifying[e.pickIndex(len(qualifying))]
	}

	var best *agent.Record
	bestScore := -1.0
	for _, a := range qualifying {
		if score := Proximity(a.Location, req.Location); score > bestScore {
			best = a
			bestScore = score
		}
	}
	return best
}
