package cache

import (
	"context"
	"time"
)

// LayeredCache implements two-level cache (L1: Memory, L2: Redis).
// Without Redis it degrades to the memory layer alone.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache Service
}

// NewLayeredCache creates a layered cache. l2 may be nil.
func NewLayeredCache(l2 Service, opts ...MemoryOption) *LayeredCache {
	return &LayeredCache{
		memCache:   NewMemoryCache(opts...),
		redisCache: l2,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	// Write-through: Redis first, then memory
	if lc.redisCache != nil {
		if err := lc.redisCache.Set(ctx, key, value, expiration); err != nil {
			return err
		}
	}
	return lc.memCache.Set(ctx, key, value, expiration)
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}
	if lc.redisCache == nil {
		return ErrCacheMiss
	}

	if err := lc.redisCache.Get(ctx, key, dest); err != nil {
		return err
	}

	// Store in memory for next time
	_ = lc.memCache.Set(ctx, key, dest, 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	if lc.redisCache == nil {
		return nil
	}
	return lc.redisCache.Delete(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	if lc.redisCache == nil {
		return nil
	}
	return lc.redisCache.Close()
}
