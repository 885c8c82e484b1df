package agent

import (
	"context"

	"github.com/eleven-am/mesh-router/internal/shared"
	"github.com/eleven-am/mesh-router/internal/storage"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	records *storage.RedisCollection[Record]
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		records: storage.NewRedisCollection[Record](client, prefix+":agent", shared.ErrAgentNotFound, shared.ErrDuplicateAgent),
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	return s.records.Get(ctx, id)
}

func (s *RedisStore) Create(ctx context.Context, r *Record) error {
	return s.records.Create(ctx, r.ID, r)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Record) error) (*Record, error) {
	return s.records.Update(ctx, id, func(r *Record) error {
		if err := fn(r); err != nil {
			return err
		}
		r.ID = id
		return nil
	})
}

func (s *RedisStore) List(ctx context.Context) ([]*Record, error) {
	return s.records.List(ctx)
}
