package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCachePutGet(t *testing.T) {
	cache := NewMemorySummaryCache(time.Hour)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "bio")
	assert.False(t, ok)

	cache.Put(ctx, "bio", "a summary")
	value, ok := cache.Get(ctx, "bio")
	require.True(t, ok)
	assert.Equal(t, "a summary", value)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemorySummaryCache(time.Hour)
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.Put(ctx, "bio", "a summary")

	// Just under the TTL: still a hit
	cache.now = func() time.Time { return now.Add(59 * time.Minute) }
	_, ok := cache.Get(ctx, "bio")
	assert.True(t, ok)

	// At the TTL: miss
	cache.now = func() time.Time { return now.Add(time.Hour) }
	_, ok = cache.Get(ctx, "bio")
	assert.False(t, ok)
}

func TestMemoryCachePutResetsTTL(t *testing.T) {
	cache := NewMemorySummaryCache(time.Hour)
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.Put(ctx, "bio", "old")

	cache.now = func() time.Time { return now.Add(50 * time.Minute) }
	cache.Put(ctx, "bio", "new")

	cache.now = func() time.Time { return now.Add(100 * time.Minute) }
	value, ok := cache.Get(ctx, "bio")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	cache := NewMemorySummaryCache(time.Hour)
	ctx := context.Background()

	cache.Put(ctx, "bio", "a summary")
	cache.Invalidate(ctx, "bio")

	_, ok := cache.Get(ctx, "bio")
	assert.False(t, ok)
}

func TestMemoryCachePurgeExpired(t *testing.T) {
	cache := NewMemorySummaryCache(time.Hour)
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.Put(ctx, "old", "stale")

	cache.now = func() time.Time { return now.Add(30 * time.Minute) }
	cache.Put(ctx, "fresh", "recent")

	cache.now = func() time.Time { return now.Add(70 * time.Minute) }
	removed := cache.PurgeExpired()
	assert.Equal(t, 1, removed)

	_, ok := cache.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok = cache.Get(ctx, "old")
	assert.False(t, ok)
}
