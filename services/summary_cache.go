package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"clarity-backend/internal/logger"
)

// SummaryCache holds generated summaries keyed by source id so repeat
// requests within the TTL skip the map-reduce pipeline entirely.
// Invalidate must be called when a document is deleted; otherwise a
// stale summary would outlive its source until the TTL expires.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key, value string)
	Invalidate(ctx context.Context, key string)
}

type cacheEntry struct {
	summary   string
	createdAt time.Time
}

// MemorySummaryCache is the default in-process backend. Expired entries
// are treated as misses on read and reaped by the scheduled janitor.
type MemorySummaryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewMemorySummaryCache(ttl time.Duration) *MemorySummaryCache {
	return &MemorySummaryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (mc *MemorySummaryCache) Get(_ context.Context, key string) (string, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, ok := mc.entries[key]
	if !ok || mc.now().Sub(entry.createdAt) >= mc.ttl {
		return "", false
	}
	return entry.summary, true
}

func (mc *MemorySummaryCache) Put(_ context.Context, key, value string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries[key] = cacheEntry{summary: value, createdAt: mc.now()}
}

// Invalidate drops a single entry, used when its document is deleted.
func (mc *MemorySummaryCache) Invalidate(_ context.Context, key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.entries, key)
}

// PurgeExpired removes expired entries and reports how many were
// dropped. Called by the cron janitor.
func (mc *MemorySummaryCache) PurgeExpired() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	removed := 0
	cutoff := mc.now()
	for key, entry := range mc.entries {
		if cutoff.Sub(entry.createdAt) >= mc.ttl {
			delete(mc.entries, key)
			removed++
		}
	}
	return removed
}

const redisSummaryPrefix = "summary:"

// RedisSummaryCache stores summaries in Redis with a native TTL, for
// deployments running more than one API instance.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (rc *RedisSummaryCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := rc.client.Get(ctx, redisSummaryPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.Warn("Summary cache read failed", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (rc *RedisSummaryCache) Put(ctx context.Context, key, value string) {
	if err := rc.client.Set(ctx, redisSummaryPrefix+key, value, rc.ttl).Err(); err != nil {
		logger.Warn("Summary cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops a single entry.
func (rc *RedisSummaryCache) Invalidate(ctx context.Context, key string) {
	if err := rc.client.Del(ctx, redisSummaryPrefix+key).Err(); err != nil {
		logger.Warn("Summary cache invalidation failed", "key", key, "error", err)
	}
}
