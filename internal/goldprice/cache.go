package goldprice

import (
	"context"
	"sync"
	"time"
)

// Cache holds at most one quote. Get only returns quotes younger than the
// cache TTL.
type Cache interface {
	Get(ctx context.Context) (Quote, bool)
	Set(ctx context.Context, q Quote)
	IsExpired(ctx context.Context) bool
}

// MemCache is the process-wide slot. Readers see either the old or the new
// quote; concurrent refreshes simply overwrite each other.
type MemCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  Clock
	slot *Quote
}

func NewMemCache(ttl time.Duration, now Clock) *MemCache {
	if now == nil {
		now = time.Now
	}
	return &MemCache{ttl: ttl, now: now}
}

func (c *MemCache) Get(_ context.Context) (Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.slot == nil || c.slot.Expired(c.now(), c.ttl) {
		return Quote{}, false
	}
	return *c.slot, true
}

func (c *MemCache) Set(_ context.Context, q Quote) {
	c.mu.Lock()
	c.slot = &q
	c.mu.Unlock()
}

func (c *MemCache) IsExpired(ctx context.Context) bool {
	_, ok := c.Get(ctx)
	return !ok
}
