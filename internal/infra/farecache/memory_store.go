package farecache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/flight-fare/internal/domain/fare"
)

type memoryEntry struct {
	price     fare.Price
	expiresAt time.Time
}

// MemoryCache is an in-process PriceCache with TTL expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (fare.Price, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return 0, false, nil
	}
	return entry.price, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, price fare.Price, ttl time.Duration) error {
	entry := memoryEntry{price: price}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

var _ fare.PriceCache = (*MemoryCache)(nil)
