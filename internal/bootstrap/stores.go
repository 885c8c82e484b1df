package bootstrap

import (
	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Migrator interface {
	Migrate() error
}

func ProvideAgentStore(cfg *Config, db *gorm.DB, redisClient *redis.Client) agent.Store {
	switch cfg.StorageBackend {
	case BackendPostgres:
		return agent.NewGormStore(db)
	case BackendRedis:
		return agent.NewRedisStore(redisClient, cfg.RedisPrefix)
	default:
		return agent.NewMemoryStore()
	}
}

func ProvideTaskLedger(cfg *Config, db *gorm.DB, redisClient *redis.Client) task.Ledger {
	switch cfg.StorageBackend {
	case BackendPostgres:
		return task.NewGormLedger(db)
	case BackendRedis:
		return task.NewRedisLedger(redisClient, cfg.RedisPrefix)
	default:
		return task.NewMemoryLedger()
	}
}

// RunMigrations migrates every store that owns a schema.
func RunMigrations(agents agent.Store, tasks task.Ledger) error {
	for _, s := range []any{agents, tasks} {
		if m, ok := s.(Migrator); ok {
			if err := m.Migrate(); err != nil {
				return err
			}
		}
	}
	return nil
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideAgentStore,
		ProvideTaskLedger,
	),
	fx.Invoke(RunMigrations),
)
