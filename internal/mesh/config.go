package mesh

import (
	"time"

	"github.com/eleven-am/mesh-router/internal/router"
)

const (
	DefaultHeartbeatThreshold = 60 * time.Second
	DefaultHistoryLimit       = 1000
)

type Config struct {
	DefaultStrategy    router.Strategy
	Weights            router.Weights
	HeartbeatThreshold time.Duration
	HistoryLimit       int
}

func DefaultConfig() Config {
	return Config{
		DefaultStrategy:    router.Balanced,
		Weights:            router.DefaultWeights,
		HeartbeatThreshold: DefaultHeartbeatThreshold,
		HistoryLimit:       DefaultHistoryLimit,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultStrategy == "" {
		c.DefaultStrategy = d.DefaultStrategy
	}
	if c.Weights == (router.Weights{}) {
		c.Weights = d.Weights
	}
	if c.HeartbeatThreshold <= 0 {
		c.HeartbeatThreshold = d.HeartbeatThreshold
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	return c
}
