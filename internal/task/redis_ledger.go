package task

import (
	"context"

	"github.com/eleven-am/mesh-router/internal/shared"
	"github.com/eleven-am/mesh-router/internal/storage"
	"github.com/redis/go-redis/v9"
)

type RedisLedger struct {
	records *storage.RedisCollection[Record]
}

func NewRedisLedger(client *redis.Client, prefix string) *RedisLedger {
	return &RedisLedger{
		records: storage.NewRedisCollection[Record](client, prefix+":task", shared.ErrTaskNotFound, shared.ErrTaskAlreadyRouted),
	}
}

func (l *RedisLedger) Get(ctx context.Context, id string) (*Record, error) {
	return l.records.Get(ctx, id)
}

func (l *RedisLedger) Put(ctx context.Context, r *Record) error {
	return l.records.Put(ctx, r.ID, r)
}

func (l *RedisLedger) Update(ctx context.Context, id string, fn func(*Record) error) (*Record, error) {
	return l.records.Update(ctx, id, func(r *Record) error {
		if err := fn(r); err != nil {
			return err
		}
		r.ID = id
		return nil
	})
}

func (l *RedisLedger) List(ctx context.Context) ([]*Record, error) {
	return l.records.List(ctx)
}

func (l *RedisLedger) Count(ctx context.Context) (int64, error) {
	return l.records.Count(ctx)
}
