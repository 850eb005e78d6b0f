package extractor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is used when NewCache is given a non-positive ttl.
const DefaultCacheTTL = 10 * time.Minute

// sharedFetchTimeout bounds an upstream call shared by several callers,
// which runs detached from any single caller's context.
const sharedFetchTimeout = 30 * time.Second

type cacheEntry struct {
	value      any
	expiration time.Time
}

// CacheStats holds cache counters.
type CacheStats struct {
	Hits   int64
	Misses int64
	Shared int64 // calls served by another in-flight request
}

// Cache is a Fetcher that keeps results for a while and collapses
// concurrent requests for the same url into one upstream call.
type Cache struct {
	next    Fetcher
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	stats   CacheStats

	sf singleflight.Group
}

// Verify Cache implements Fetcher at compile time.
var _ Fetcher = (*Cache)(nil)

// NewCache wraps next with a cache.
func NewCache(next Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		next:    next,
		ttl:     ttl,
		timeout: sharedFetchTimeout,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// FetchStream returns cached stream info unless forceReload is set.
func (c *Cache) FetchStream(ctx context.Context, serviceID int, url string, forceReload bool) (*StreamInfo, error) {
	v, err := c.fetch(ctx, cacheKey("stream", serviceID, url), forceReload, func(ctx context.Context) (any, error) {
		return c.next.FetchStream(ctx, serviceID, url, forceReload)
	})
	if err != nil {
		return nil, err
	}
	return v.(*StreamInfo), nil //nolint:forcetypeassert // keys are namespaced per type
}

// FetchChannel returns cached channel info unless forceReload is set.
func (c *Cache) FetchChannel(ctx context.Context, serviceID int, url string, forceReload bool) (*ChannelInfo, error) {
	v, err := c.fetch(ctx, cacheKey("channel", serviceID, url), forceReload, func(ctx context.Context) (any, error) {
		return c.next.FetchChannel(ctx, serviceID, url, forceReload)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ChannelInfo), nil //nolint:forcetypeassert // keys are namespaced per type
}

func (c *Cache) fetch(
	ctx context.Context,
	key string,
	forceReload bool,
	load func(context.Context) (any, error),
) (any, error) {
	if !forceReload {
		if v, ok := c.get(key); ok {
			return v, nil
		}
	}

	// A forced reload must not join a cached-path call already in flight.
	flightKey := key
	if forceReload {
		flightKey += "#force"
	}

	ch := c.sf.DoChan(flightKey, func() (any, error) {
		// The shared call must outlive a single caller's cancellation.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.set(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.mu.Lock()
			c.stats.Shared++
			c.mu.Unlock()
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiration) {
		if ok {
			delete(c.entries, key)
		}
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.value, true
}

func (c *Cache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiration: c.now().Add(c.ttl)}
}

// Invalidate drops the cached stream and channel info for url.
func (c *Cache) Invalidate(serviceID int, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey("stream", serviceID, url))
	delete(c.entries, cacheKey("channel", serviceID, url))
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Stats returns a copy of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func cacheKey(kind string, serviceID int, url string) string {
	return fmt.Sprintf("%s:%d:%s", kind, serviceID, url)
}
