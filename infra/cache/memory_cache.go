package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/strides/pkg/cache"
)

// MemoryCache implements cache.ResponseCache in process memory. It is the
// fallback when no Redis URL is configured and does not survive restarts.
type MemoryCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	done    chan struct{}
	once    sync.Once
	now     func() time.Time
}

var _ cache.ResponseCache = (*MemoryCache)(nil)

// NewMemoryCache creates a new in-memory cache and starts its janitor.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*cacheEntry),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go c.cleanup(5 * time.Minute)
	return c
}

// Get returns the stored response, or nil when absent or expired.
func (c *MemoryCache) Get(_ context.Context, key string) (*cache.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || c.now().After(entry.expiresAt) {
		return nil, nil
	}
	resp := *entry.resp
	return &resp, nil
}

// Set stores a response with TTL.
func (c *MemoryCache) Set(_ context.Context, key string, resp *cache.Response, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := *resp
	c.entries[key] = &cacheEntry{
		resp:      &stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a response from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Close stops the janitor goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// cleanup removes expired entries from cache
func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

type cacheEntry struct {
	resp      *cache.Response
	expiresAt time.Time
}
