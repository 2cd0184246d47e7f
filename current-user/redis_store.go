package user

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisKeyPrefix = "paysdk:prefs:"

// RedisStore keeps values as plain redis strings under a common key prefix
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store; empty prefix falls back to DefaultRedisKeyPrefix
func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if len(prefix) == 0 {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrapf(err, "redis get %s", key)
	}
	return v, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Wrapf(err, "redis del %s", key)
	}
	return nil
}
