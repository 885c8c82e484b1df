package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 8

var ErrUpdateContention = errors.New("storage: too much contention on key")

// RedisCollection stores JSON documents under "<prefix>:<id>" and keeps their
// insertion order in the sorted set "<prefix>s".
type RedisCollection[T any] struct {
	client    *redis.Client
	prefix    string
	notFound  error
	duplicate error
}

func NewRedisCollection[T any](client *redis.Client, prefix string, notFound, duplicate error) *RedisCollection[T] {
	return &RedisCollection[T]{
		client:    client,
		prefix:    prefix,
		notFound:  notFound,
		duplicate: duplicate,
	}
}

func (c *RedisCollection[T]) Key(id string) string {
	return c.prefix + ":" + id
}

func (c *RedisCollection[T]) indexKey() string {
	return c.prefix + "s"
}

func (c *RedisCollection[T]) seqKey() string {
	return c.prefix + "s:seq"
}

func (c *RedisCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	data, err := c.client.Get(ctx, c.Key(id)).Bytes()
	if err == redis.Nil {
		return nil, c.notFound
	}
	if err != nil {
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Key(id), err)
	}
	return &v, nil
}

// Create fails with the duplicate error when id already exists.
func (c *RedisCollection[T]) Create(ctx context.Context, id string, v *T) error {
	return c.write(ctx, id, v, false)
}

// Put creates or replaces the document.
func (c *RedisCollection[T]) Put(ctx context.Context, id string, v *T) error {
	return c.write(ctx, id, v, true)
}

// write stores the document and, when it is new, its index entry in one
// MULTI so a document is never visible without its index entry. The sequence
// is drawn before the transaction; a failed attempt leaves only a gap.
func (c *RedisCollection[T]) write(ctx context.Context, id string, v *T, replace bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	key := c.Key(id)

	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			if !replace {
				return c.duplicate
			}
			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, 0)
				return nil
			})
			return err
		}

		seq, err := c.client.Incr(ctx, c.seqKey()).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAddNX(ctx, c.indexKey(), redis.Z{Score: float64(seq), Member: id})
			return nil
		})
		return err
	}

	for range maxUpdateRetries {
		err := c.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrUpdateContention
}

// Update runs fn inside an optimistic WATCH/MULTI transaction and retries
// when another writer touches the key first.
func (c *RedisCollection[T]) Update(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	key := c.Key(id)
	var result *T

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return c.notFound
		}
		if err != nil {
			return err
		}

		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if err := fn(&v); err != nil {
			return err
		}

		out, err := json.Marshal(&v)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = &v
		return nil
	}

	for range maxUpdateRetries {
		err := c.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, ErrUpdateContention
}

// List returns documents in insertion order.
func (c *RedisCollection[T]) List(ctx context.Context) ([]*T, error) {
	ids, err := c.client.ZRange(ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.Key(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(vals))
	for i, raw := range vals {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, &v)
	}
	return out, nil
}

func (c *RedisCollection[T]) Count(ctx context.Context) (int64, error) {
	return c.client.ZCard(ctx, c.indexKey()).Result()
}
