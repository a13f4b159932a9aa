// Package redis implements the session store on top of a Redis backend. All
// cross-client coordination rides on Redis atomic primitives; no in-process
// locking is involved.
package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/gravadigital/atelier-api/internal/config"
)

// Store wraps a Redis client with the session TTL policy. Every write
// refreshes the touched key to the full TTL.
type Store struct {
	client *backend.Client
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the session expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a store from connection parameters.
func New(cfg *config.Config, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	store := &Store{
		client: rdb,
		ttl:    cfg.Session.TTL,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// TTL returns the configured session expiry.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// GetString reads a string key; the second return is false when absent.
func (s *Store) GetString(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == backend.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, true, nil
}

// SetString writes a string key with the session TTL.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// SetStringNX writes a string key only if it does not exist yet, with the
// session TTL. Returns whether the write won.
func (s *Store) SetStringNX(ctx context.Context, key, value string) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to setnx %s: %w", key, err)
	}
	return ok, nil
}

// HashIncrBy atomically increments a hash field, refreshing the key TTL, and
// returns the new count.
func (s *Store) HashIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, field, delta)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to hincrby %s %s: %w", key, field, err)
	}
	return incr.Val(), nil
}

// HashGetAll reads every field of a hash; absent keys yield an empty map.
func (s *Store) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	data, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to hgetall %s: %w", key, err)
	}
	return data, nil
}

// HashSet writes one hash field, refreshing the key TTL.
func (s *Store) HashSet(ctx context.Context, key, field, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, field, value)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to hset %s %s: %w", key, field, err)
	}
	return nil
}

// HashLen returns the number of fields in a hash.
func (s *Store) HashLen(ctx context.Context, key string) (int, error) {
	n, err := s.client.HLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to hlen %s: %w", key, err)
	}
	return int(n), nil
}

// ListAppend appends values to a list, refreshing the key TTL.
func (s *Store) ListAppend(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, args...)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rpush %s: %w", key, err)
	}
	return nil
}

// ListGetAll reads the full list in insertion order.
func (s *Store) ListGetAll(ctx context.Context, key string) ([]string, error) {
	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to lrange %s: %w", key, err)
	}
	return items, nil
}

// ListReplace swaps the full list content inside one MULTI/EXEC transaction,
// so concurrent readers never observe the list mid-replace.
func (s *Store) ListReplace(ctx context.Context, key string, values []string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		args := make([]interface{}, 0, len(values))
		for _, v := range values {
			args = append(args, v)
		}
		pipe.RPush(ctx, key, args...)
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// SetAddOnce adds a member to a set, refreshing the key TTL, and reports
// whether the member was newly added. The SADD reply is what makes
// check-then-act safe under concurrent requests.
func (s *Store) SetAddOnce(ctx context.Context, key, member string) (bool, error) {
	pipe := s.client.TxPipeline()
	add := pipe.SAdd(ctx, key, member)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to sadd %s: %w", key, err)
	}
	return add.Val() == 1, nil
}

// SetIsMember reports set membership.
func (s *Store) SetIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to sismember %s: %w", key, err)
	}
	return ok, nil
}

// SetCard returns the set cardinality.
func (s *Store) SetCard(ctx context.Context, key string) (int, error) {
	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to scard %s: %w", key, err)
	}
	return int(n), nil
}

// Exists reports whether a key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n == 1, nil
}

// Delete removes keys.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}
