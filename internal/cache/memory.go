package cache

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process TTL map swept by a background goroutine
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewMemoryCache starts a cache whose entries live for ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Close stops the sweeper. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

// MemoryStats is a point-in-time view of the cache
type MemoryStats struct {
	Total   int           `json:"total_entries"`
	Expired int           `json:"expired_entries"`
	Active  int           `json:"active_entries"`
	TTL     time.Duration `json:"ttl"`
}

// Stats counts live and expired entries
func (c *MemoryCache) Stats() MemoryStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	expired := 0
	for _, e := range c.entries {
		if now.After(e.expiresAt) {
			expired++
		}
	}
	return MemoryStats{
		Total:   len(c.entries),
		Expired: expired,
		Active:  len(c.entries) - expired,
		TTL:     c.ttl,
	}
}
