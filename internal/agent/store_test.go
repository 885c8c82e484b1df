package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/mesh-router/internal/shared"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAgentDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func storeBackends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"gorm": func(t *testing.T) Store {
			s := NewGormStore(setupTestAgentDB(t))
			if err := s.Migrate(); err != nil {
				t.Fatalf("migration failed: %v", err)
			}
			return s
		},
		"redis": func(t *testing.T) Store {
			return NewRedisStore(setupTestRedis(t), "test")
		},
	}
}

func newTestRecord(id string) *Record {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Record{
		ID:             id,
		Status:         StatusActive,
		Capabilities:   shared.StringSlice{"text_generation", "finance"},
		Capacity:       100,
		ResilienceMode: ModeStandard,
		EdgeProfile:    shared.FloatMap{"bandwidth": 50},
		IndustryTags:   shared.StringSlice{"finance"},
		Location:       &Location{Region: "us-east-1", Country: "US", Continent: "NA"},
		Confidence:     InitialConfidence,
		RegisteredAt:   now,
		LastHeartbeat:  now,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	for name, newStore := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			if err := store.Create(ctx, newTestRecord("a1")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			got, err := store.Get(ctx, "a1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Status != StatusActive {
				t.Errorf("expected status active, got %s", got.Status)
			}
			if !got.Capabilities.ContainsAll([]string{"text_generation", "finance"}) {
				t.Errorf("unexpected capabilities %v", got.Capabilities)
			}
			if got.EdgeProfile["bandwidth"] != 50 {
				t.Errorf("expected bandwidth 50, got %v", got.EdgeProfile["bandwidth"])
			}
			if got.Location == nil || got.Location.Region != "us-east-1" {
				t.Errorf("unexpected location %+v", got.Location)
			}
			if got.Confidence != InitialConfidence {
				t.Errorf("expected confidence 1.0, got %v", got.Confidence)
			}
		})
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	for name, newStore := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			if err := store.Create(ctx, newTestRecord("a1")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			err := store.Create(ctx, newTestRecord("a1"))
			if !errors.Is(err, shared.ErrDuplicateAgent) {
				t.Errorf("expected ErrDuplicateAgent, got %v", err)
			}
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, newStore := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := newStore(t).Get(context.Background(), "missing")
			if !errors.Is(err, shared.ErrAgentNotFound) {
				t.Errorf("expected ErrAgentNotFound, got %v", err)
			}
		})
	}
}

func TestStore_Update(t *testing.T) {
	for name, newStore := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			store.Create(ctx, newTestRecord("a1"))

			updated, err := store.Update(ctx, "a1", func(r *Record) error {
				r.Assign("t1", 10)
				r.Latency.Add(12)
				return nil
			})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if updated.CurrentLoad != 10 || !updated.HasTask("t1") {
				t.Errorf("unexpected updated record %+v", updated)
			}

			got, _ := store.Get(ctx, "a1")
			if got.CurrentLoad != 10 {
				t.Errorf("expected persisted load 10, got %v", got.CurrentLoad)
			}
			if avg, ok := got.Latency.Average(); !ok || avg != 12 {
				t.Errorf("expected latency average 12, got %v (%v)", avg, ok)
			}
		})
	}
}

func TestStore_UpdateAbortsOnError(t *testing.T) {
	for name, newStore := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			store.Create(ctx, newTestRecord("a1"))

			boom := errors.New("boom")
			_, err := store.Update(ctx, "a1", func(r *Record) error {
				r.CurrentLoad = 99
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected boom, got %v", err)
			}

			got, _ := store.Get(ctx, "a1")
			if got.CurrentLoad != 0 {
				t.Errorf("expected load untouched, got %v", got.CurrentLoad)
			}
		})
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	for name, newStore := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := newStore(t).Update(context.Background(), "missing", func(*Record) error { return nil })
			if !errors.Is(err, shared.ErrAgentNotFound) {
				t.Errorf("expected ErrAgentNotFound, got %v", err)
			}
		})
	}
}

func TestStore_ListKeepsRegistrationOrder(t *testing.T) {
	for name, newStore := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			ids := []string{"zeta", "alpha", "mid"}
			for _, id := range ids {
				if err := store.Create(ctx, newTestRecord(id)); err != nil {
					t.Fatalf("Create(%s) error = %v", id, err)
				}
			}
			store.Update(ctx, "zeta", func(r *Record) error {
				r.CurrentLoad = 5
				return nil
			})

			list, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != len(ids) {
				t.Fatalf("expected %d records, got %d", len(ids), len(list))
			}
			for i, id := range ids {
				if list[i].ID != id {
					t.Errorf("index %d: expected %s, got %s", i, id, list[i].ID)
				}
			}
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Create(ctx, newTestRecord("a1"))

	got, _ := store.Get(ctx, "a1")
	got.CurrentLoad = 50
	got.Capabilities[0] = "mutated"

	again, _ := store.Get(ctx, "a1")
	if again.CurrentLoad != 0 {
		t.Errorf("expected stored load 0, got %v", again.CurrentLoad)
	}
	if again.Capabilities[0] != "text_generation" {
		t.Errorf("expected stored capabilities untouched, got %v", again.Capabilities)
	}
}

func TestGormStore_NilLocationRoundTrip(t *testing.T) {
	store := NewGormStore(setupTestAgentDB(t))
	store.Migrate()
	ctx := context.Background()

	r := newTestRecord("a1")
	r.Location = nil
	if err := store.Create(ctx, r); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, _ := store.Get(ctx, "a1")
	if got.Location != nil {
		t.Errorf("expected nil location, got %+v", got.Location)
	}
}

func TestRedisStore_KeyLayout(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "mesh")
	ctx := context.Background()

	for i := range 3 {
		store.Create(ctx, newTestRecord(fmt.Sprintf("a%d", i)))
	}

	n, err := client.ZCard(ctx, "mesh:agents").Result()
	if err != nil {
		t.Fatalf("ZCard error = %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 indexed agents, got %d", n)
	}
	if exists, _ := client.Exists(ctx, "mesh:agent:a0").Result(); exists != 1 {
		t.Error("expected mesh:agent:a0 to exist")
	}
}
