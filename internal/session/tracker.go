// Package session issues per-session submission sequence numbers.
//
// Every submission gets a number larger than the previous one for the same
// key. When a slow response finishes, IsLatest reports whether a newer
// submission was issued meanwhile so the stale result can be discarded.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an idle session's counter is kept
const DefaultTTL = time.Hour

// Tracker issues and checks submission sequence numbers
type Tracker interface {
	Begin(ctx context.Context, key string) (int64, error)
	IsLatest(ctx context.Context, key string, seq int64) (bool, error)
}

// MemoryTracker keeps counters in process memory
type MemoryTracker struct {
	mu     sync.Mutex
	latest map[string]int64
}

// NewMemoryTracker creates an empty in-memory tracker
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{latest: make(map[string]int64)}
}

// Begin issues the next sequence number for key
func (t *MemoryTracker) Begin(_ context.Context, key string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[key]++
	return t.latest[key], nil
}

// IsLatest reports whether seq is still the newest number for key
func (t *MemoryTracker) IsLatest(_ context.Context, key string, seq int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[key] == seq, nil
}

// RedisTracker keeps counters in Redis so every replica sees the same order
type RedisTracker struct {
	redis     *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisTracker creates a tracker backed by redisClient
func NewRedisTracker(redisClient *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTracker{
		redis:     redisClient,
		keyPrefix: "submission:seq",
		ttl:       ttl,
	}
}

func (t *RedisTracker) redisKey(key string) string {
	return fmt.Sprintf("%s:%s", t.keyPrefix, key)
}

// Begin issues the next sequence number for key and refreshes its TTL
func (t *RedisTracker) Begin(ctx context.Context, key string) (int64, error) {
	rkey := t.redisKey(key)

	pipe := t.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, rkey)
	pipe.Expire(ctx, rkey, t.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to issue submission sequence: %w", err)
	}
	return incrCmd.Val(), nil
}

// IsLatest reports whether seq is still the newest number for key. An expired
// counter means no newer submission exists.
func (t *RedisTracker) IsLatest(ctx context.Context, key string, seq int64) (bool, error) {
	current, err := t.redis.Get(ctx, t.redisKey(key)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read submission sequence: %w", err)
	}
	return current == seq, nil
}
