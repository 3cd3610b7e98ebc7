package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	val     []byte
	expires time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory returns a process-local cache. Expired entries are dropped lazily on read.
func NewMemory() Cache {
	return &memoryCache{entries: make(map[string]entry), now: time.Now}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Clear(context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}
