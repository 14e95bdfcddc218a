package shortener

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	short     string
	expiresAt time.Time
}

// MemoryCache is the Cache used when Redis is not configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, longURL string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[longURL]
	if !ok || !c.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.short, true, nil
}

func (c *MemoryCache) Set(_ context.Context, longURL, short string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[longURL] = memoryEntry{short: short, expiresAt: c.now().Add(ttl)}
	return nil
}
