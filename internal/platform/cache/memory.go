package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is a process-local DayCache for single-instance deployments
// and tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemory() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, providerID, date string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key(providerID, date)]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key(providerID, date))
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (c *MemoryCache) Set(_ context.Context, providerID, date string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(providerID, date)] = memoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, providerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := "availability:" + providerID + ":"
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}
