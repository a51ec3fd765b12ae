package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Cache keys for the logical datasets the service reads repeatedly. Kept in
// one place so handlers and the notifier agree on what to invalidate.
const (
	KeyOrders            = "orders"
	KeyProducts          = "products"
	KeyAvailableProducts = "available_products"
	KeyAllProducts       = "all_products"
)

// ComputeFunc produces the value for a cache key, typically by querying the
// backing store. It may block on the network and may fail.
type ComputeFunc func(ctx context.Context) (interface{}, error)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a get-or-compute cache with a per-entry TTL counted from the time
// the value was stored, not from last access. The key space is unbounded;
// callers are expected to use a small fixed set of dataset names.
//
// Two concurrent GetOrCompute calls for the same key may both run the compute
// function. The lock is released while computing so a slow store query does
// not stall reads of other keys, and no in-flight deduplication is done.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	logger *slog.Logger
}

func New(logger *slog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
		logger:  logger,
	}
}

// GetOrCompute returns the cached value for key if it has not expired.
// Otherwise it runs compute, stores the result with expiry now+ttl and
// returns it. A failed compute leaves the cache untouched and its error is
// returned to the caller; the cache performs no retry.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) (interface{}, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	now := c.now()
	c.mu.RUnlock()

	if ok && now.Before(e.expiresAt) {
		return e.value, nil
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()

	c.logger.Debug("Cache entry recomputed", "key", key, "ttl", ttl)
	return value, nil
}

// Invalidate removes the entries for the given keys regardless of their TTL.
// Missing keys are ignored.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			c.logger.Debug("Cache entry invalidated", "key", key)
		}
	}
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetClock replaces the cache's time source. Tests use this to step through
// TTL boundaries deterministically.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
