package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/mesh-router/internal/agent"
	"github.com/eleven-am/mesh-router/internal/events"
	"github.com/eleven-am/mesh-router/internal/router"
	"github.com/eleven-am/mesh-router/internal/task"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAppGraph(t *testing.T) {
	if err := fx.ValidateApp(appOptions()); err != nil {
		t.Fatalf("fx.ValidateApp() error = %v", err)
	}
}

func TestProvideStores(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	tests := []struct {
		backend string
		check   func(agent.Store, task.Ledger) bool
	}{
		{BackendMemory, func(s agent.Store, l task.Ledger) bool {
			_, ok1 := s.(*agent.MemoryStore)
			_, ok2 := l.(*task.MemoryLedger)
			return ok1 && ok2
		}},
		{BackendRedis, func(s agent.Store, l task.Ledger) bool {
			_, ok1 := s.(*agent.RedisStore)
			_, ok2 := l.(*task.RedisLedger)
			return ok1 && ok2
		}},
		{BackendPostgres, func(s agent.Store, l task.Ledger) bool {
			_, ok1 := s.(*agent.GormStore)
			_, ok2 := l.(*task.GormLedger)
			return ok1 && ok2
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := &Config{StorageBackend: tt.backend, RedisPrefix: "test"}
			s := ProvideAgentStore(cfg, db, client)
			l := ProvideTaskLedger(cfg, db, client)
			if !tt.check(s, l) {
				t.Fatalf("unexpected store types %T %T", s, l)
			}
			if err := RunMigrations(s, l); err != nil {
				t.Errorf("RunMigrations() error = %v", err)
			}
		})
	}

	if !db.Migrator().HasTable("mesh_agents") || !db.Migrator().HasTable("mesh_tasks") {
		t.Error("expected gorm tables to be migrated")
	}
}

func TestProvideMeshConfig(t *testing.T) {
	cfg := &Config{DefaultStrategy: "Latency_Optimized", WeightLoad: 0.4, WeightSpecialization: 0.4, WeightResilience: 0.2}
	meshCfg, err := ProvideMeshConfig(cfg)
	if err != nil {
		t.Fatalf("ProvideMeshConfig() error = %v", err)
	}
	if meshCfg.DefaultStrategy != router.LatencyOptimized || meshCfg.Weights.Load != 0.4 {
		t.Errorf("unexpected mesh config %+v", meshCfg)
	}

	if _, err := ProvideMeshConfig(&Config{DefaultStrategy: "cheapest"}); err == nil {
		t.Error("expected unknown strategy error")
	}
}

func TestProvidePublisher(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	res := ProvidePublisher(&Config{}, nil, log)
	if _, ok := res.Publisher.(events.Noop); !ok || res.Breaker != nil {
		t.Errorf("disabled events should be noop, got %T %v", res.Publisher, res.Breaker)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	res = ProvidePublisher(&Config{EventsEnabled: true, EventsChannel: "mesh:events"}, redis.NewClient(&redis.Options{Addr: mr.Addr()}), log)
	if _, ok := res.Publisher.(*events.RedisPublisher); !ok || res.Breaker == nil {
		t.Errorf("enabled events should use redis, got %T", res.Publisher)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
