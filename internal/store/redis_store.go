package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore returns a Store that keeps every key under prefix. Values
// never expire.
func NewRedisStore(rdb *redis.Client, prefix string) Store {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (r *redisStore) key(k string) string { return r.prefix + k }

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (r *redisStore) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}
