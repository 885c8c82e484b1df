package bootstrap

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/eleven-am/mesh-router/internal/health"
	"github.com/eleven-am/mesh-router/internal/mesh"
	"github.com/eleven-am/mesh-router/internal/router"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvideMeshConfig(cfg *Config) (mesh.Config, error) {
	strategy, err := router.ParseStrategy(cfg.DefaultStrategy)
	if err != nil {
		return mesh.Config{}, err
	}
	return mesh.Config{
		DefaultStrategy: strategy,
		Weights: router.Weights{
			Load:           cfg.WeightLoad,
			Specialization: cfg.WeightSpecialization,
			Resilience:     cfg.WeightResilience,
		},
		HeartbeatThreshold: cfg.HeartbeatThreshold,
		HistoryLimit:       cfg.HistoryLimit,
	}, nil
}

type PublisherResult struct {
	fx.Out

	Publisher events.Publisher
	Breaker   health.BreakerStater
}

// ProvidePublisher fans mesh events out over Redis when enabled. The breaker
// is nil when events are off so readiness skips the check.
func ProvidePublisher(cfg *Config, redisClient *redis.Client, logger *slog.Logger) PublisherResult {
	if !cfg.EventsEnabled {
		return PublisherResult{Publisher: events.Noop{}}
	}
	p := events.NewRedisPublisher(redisClient, cfg.EventsChannel, logger)
	return PublisherResult{Publisher: p, Breaker: p}
}

func ProvideCoordinator(cfg *Config, meshCfg mesh.Config, agents agent.Store, tasks task.Ledger, publisher events.Publisher, logger *slog.Logger) *mesh.Coordinator {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mesh.NewCoordinator(meshCfg, agents, tasks,
		mesh.WithRandom(rand.New(rand.NewSource(seed))),
		mesh.WithPublisher(publisher),
		mesh.WithLogger(logger),
	)
}

var MeshModule = fx.Options(
	fx.Provide(
		ProvideMeshConfig,
		ProvidePublisher,
		ProvideCoordinator,
	),
)
