package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	errMissing   = errors.New("missing")
	errDuplicate = errors.New("duplicate")
)

type doc struct {
	Name string `json:"name"`
}

func setupCollection(t *testing.T) (*RedisCollection[doc], *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCollection[doc](client, "test:doc", errMissing, errDuplicate), mr
}

func TestRedisCollection_CreateAndList(t *testing.T) {
	c, _ := setupCollection(t)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		if err := c.Create(ctx, id, &doc{Name: id}); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}
	if err := c.Create(ctx, "a", &doc{Name: "again"}); !errors.Is(err, errDuplicate) {
		t.Errorf("expected duplicate error, got %v", err)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 || list[0].Name != "b" || list[1].Name != "a" || list[2].Name != "c" {
		t.Errorf("unexpected order %+v", list)
	}
	if got, _ := c.Get(ctx, "a"); got.Name != "a" {
		t.Errorf("expected original document kept, got %+v", got)
	}
}

func TestRedisCollection_PutReplacesInPlace(t *testing.T) {
	c, _ := setupCollection(t)
	ctx := context.Background()

	c.Put(ctx, "x", &doc{Name: "first"})
	c.Put(ctx, "y", &doc{Name: "second"})
	if err := c.Put(ctx, "x", &doc{Name: "replaced"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	list, _ := c.List(ctx)
	if len(list) != 2 || list[0].Name != "replaced" || list[1].Name != "second" {
		t.Errorf("unexpected list %+v", list)
	}
	if n, _ := c.Count(ctx); n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}

func TestRedisCollection_CreateLeavesNothingWhenIndexingFails(t *testing.T) {
	c, mr := setupCollection(t)
	ctx := context.Background()

	if err := mr.Set(c.seqKey(), "not-a-number"); err != nil {
		t.Fatalf("seed seq key: %v", err)
	}
	if err := c.Create(ctx, "a", &doc{Name: "a"}); err == nil {
		t.Fatal("expected error when the sequence cannot be incremented")
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, errMissing) {
		t.Errorf("expected no document after failed create, got %v", err)
	}

	mr.Del(c.seqKey())
	if err := c.Create(ctx, "a", &doc{Name: "a"}); err != nil {
		t.Fatalf("retry Create() error = %v", err)
	}
	list, _ := c.List(ctx)
	if len(list) != 1 || list[0].Name != "a" {
		t.Errorf("expected indexed document after retry, got %+v", list)
	}
}

func TestRedisCollection_UpdateMissing(t *testing.T) {
	c, _ := setupCollection(t)
	_, err := c.Update(context.Background(), "nope", func(*doc) error { return nil })
	if !errors.Is(err, errMissing) {
		t.Errorf("expected not found error, got %v", err)
	}
}
