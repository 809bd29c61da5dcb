package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces limiter keys in a shared Redis.
const DefaultRedisPrefix = "portfolio:contact:rl"

// RedisStore shares records between processes through Redis. Each record is
// stored as JSON and expires once its window is over.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Record, bool, error) {
	raw, errGet := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if errors.Is(errGet, redis.Nil) {
		return Record{}, false, nil
	}
	if errGet != nil {
		return Record{}, false, errGet
	}
	var record Record
	if errUnmarshal := json.Unmarshal(raw, &record); errUnmarshal != nil {
		return Record{}, false, errUnmarshal
	}
	return record, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, record Record) error {
	payload, errMarshal := json.Marshal(record)
	if errMarshal != nil {
		return errMarshal
	}
	ttl := time.Until(record.ResetAt)
	if ttl <= 0 || ttl > Window {
		ttl = Window
	}
	return s.client.Set(ctx, s.buildKey(key), payload, ttl).Err()
}

// KeySalt returns the salt shared by every process using this prefix,
// generating and storing one on first use.
func (s *RedisStore) KeySalt(ctx context.Context) (string, error) {
	candidate, err := RandomSalt()
	if err != nil {
		return "", err
	}
	key := s.buildKey("salt")
	if err := s.client.SetNX(ctx, key, candidate, 0).Err(); err != nil {
		return "", fmt.Errorf("store key salt: %w", err)
	}
	salt, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("load key salt: %w", err)
	}
	return salt, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) buildKey(key string) string {
	return s.prefix + ":" + key
}
