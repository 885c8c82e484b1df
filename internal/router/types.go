package router

import (
	"fmt"
	"strings"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/shared"
)

type Strategy string

const (
	Balanced            Strategy = "balanced"
	LatencyOptimized    Strategy = "latency-optimized"
	ResilienceOptimized Strategy = "resilience-optimized"
	EdgeAware           Strategy = "edge-aware"
)

var Strategies = []Strategy{Balanced, LatencyOptimized, ResilienceOptimized, EdgeAware}

// ParseStrategy accepts hyphenated or underscored names, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	normalized := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, known := range Strategies {
		if normalized == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown routing strategy %q: %w", s, shared.ErrStrategySelectionFailed)
}

type Weights struct {
	Load           float64 `yaml:"load"`
	Specialization float64 `yaml:"specialization"`
	Resilience     float64 `yaml:"resilience"`
}

var DefaultWeights = Weights{Load: 0.5, Specialization: 0.3, Resilience: 0.2}

// Random is the source behind the randomized strategy branches. *math/rand.Rand
// satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

type Request struct {
	Priority         int
	IndustryTags     []string
	Strategy         Strategy
	EdgeRequirements map[string]float64
	Location         *agent.Location
}
