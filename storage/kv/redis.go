package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ncobase/accountdesk/config"
	"github.com/redis/go-redis/v9"
)

// Redis stores all keys as fields of one hash, so Keys is a single HKEYS.
type Redis struct {
	rc    *redis.Client
	hash  string
	owned bool
}

// NewRedis wraps an existing client; the caller keeps ownership of rc.
func NewRedis(rc *redis.Client, prefix string) *Redis {
	return &Redis{rc: rc, hash: prefix + "store"}
}

// OpenRedis dials addr and verifies the connection
func OpenRedis(ctx context.Context, cfg *config.Storage) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("kv: redis addr is required")
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("kv: redis ping: %w", err)
	}
	r := NewRedis(rc, cfg.Prefix)
	r.owned = true
	return r, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rc.HGet(ctx, r.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv: redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.rc.HSet(ctx, r.hash, key, value).Err(); err != nil {
		return fmt.Errorf("kv: redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.rc.HDel(ctx, r.hash, keys...).Err(); err != nil {
		return fmt.Errorf("kv: redis remove: %w", err)
	}
	return nil
}

func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.rc.HKeys(ctx, r.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("kv: redis keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *Redis) Close() error {
	if r.owned {
		return r.rc.Close()
	}
	return nil
}

func init() {
	Register("redis", func(ctx context.Context, cfg *config.Storage) (Store, error) {
		return OpenRedis(ctx, cfg)
	})
}
