package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/mesh-router/internal/shared"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestTaskDB(t *testing.T) *gorm.DB {
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

func ledgerBackends() map[string]func(t *testing.T) Ledger {
	return map[string]func(t *testing.T) Ledger{
		"memory": func(t *testing.T) Ledger {
			return NewMemoryLedger()
		},
		"gorm": func(t *testing.T) Ledger {
			l := NewGormLedger(setupTestTaskDB(t))
			if err := l.Migrate(); err != nil {
				t.Fatalf("migration failed: %v", err)
			}
			return l
		},
		"redis": func(t *testing.T) Ledger {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("failed to start miniredis: %v", err)
			}
			t.Cleanup(mr.Close)
			return NewRedisLedger(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
		},
	}
}

func newTestTask(id, agentID string) *Record {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Record{
		ID:                   id,
		AgentID:              agentID,
		Status:               StatusRouted,
		Priority:             5,
		BaseLoad:             BaseLoad(5),
		RequiredCapabilities: shared.StringSlice{"text_generation"},
		Strategy:             "balanced",
		RoutedAt:             now,
		UpdatedAt:            now,
	}
}

func TestBaseLoad(t *testing.T) {
	tests := []struct {
		priority int
		want     float64
	}{
		{0, 0},
		{1, 2},
		{5, 10},
		{7, 14},
		{10, 20},
	}
	for _, tt := range tests {
		if got := BaseLoad(tt.priority); got != tt.want {
			t.Errorf("BaseLoad(%d) = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusRouted, false},
		{StatusRunning, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}
	for _, tt := range tests {
		if tt.status.Terminal() != tt.terminal {
			t.Errorf("%s.Terminal() = %v", tt.status, !tt.terminal)
		}
	}
	if _, err := ParseStatus("paused"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLedger_PutGet(t *testing.T) {
	for name, newLedger := range ledgerBackends() {
		t.Run(name, func(t *testing.T) {
			l := newLedger(t)
			ctx := context.Background()

			if err := l.Put(ctx, newTestTask("t1", "a1")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			got, err := l.Get(ctx, "t1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.AgentID != "a1" || got.Status != StatusRouted || got.BaseLoad != 10 {
				t.Errorf("unexpected record %+v", got)
			}

			if _, err := l.Get(ctx, "missing"); !errors.Is(err, shared.ErrTaskNotFound) {
				t.Errorf("expected ErrTaskNotFound, got %v", err)
			}
		})
	}
}

func TestLedger_PutReplacesWithoutReordering(t *testing.T) {
	for name, newLedger := range ledgerBackends() {
		t.Run(name, func(t *testing.T) {
			l := newLedger(t)
			ctx := context.Background()

			l.Put(ctx, newTestTask("t1", "a1"))
			l.Put(ctx, newTestTask("t2", "a1"))

			rerouted := newTestTask("t1", "a2")
			rerouted.RerouteCount = 1
			rerouted.PreviousAgentIDs = shared.StringSlice{"a1"}
			if err := l.Put(ctx, rerouted); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			list, err := l.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 2 || list[0].ID != "t1" || list[1].ID != "t2" {
				t.Fatalf("unexpected order %v", list)
			}
			if list[0].AgentID != "a2" || list[0].RerouteCount != 1 {
				t.Errorf("expected replaced record, got %+v", list[0])
			}

			n, err := l.Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != 2 {
				t.Errorf("expected count 2, got %d", n)
			}
		})
	}
}

func TestLedger_Update(t *testing.T) {
	for name, newLedger := range ledgerBackends() {
		t.Run(name, func(t *testing.T) {
			l := newLedger(t)
			ctx := context.Background()
			l.Put(ctx, newTestTask("t1", "a1"))

			success := true
			updated, err := l.Update(ctx, "t1", func(r *Record) error {
				r.Status = StatusCompleted
				r.Success = &success
				return nil
			})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if updated.Status != StatusCompleted || updated.Success == nil || !*updated.Success {
				t.Errorf("unexpected updated record %+v", updated)
			}

			got, _ := l.Get(ctx, "t1")
			if got.Status != StatusCompleted {
				t.Errorf("expected persisted completed, got %s", got.Status)
			}

			_, err = l.Update(ctx, "missing", func(*Record) error { return nil })
			if !errors.Is(err, shared.ErrTaskNotFound) {
				t.Errorf("expected ErrTaskNotFound, got %v", err)
			}
		})
	}
}
