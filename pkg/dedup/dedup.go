// Package dedup drops repeats of recently seen keys. It exists because QoS1
// MQTT subscriptions may redeliver an identical payload; hashing the payload
// and asking the cache is cheaper than making every handler idempotent.
package dedup

import (
	"sync"
	"time"
)

type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxKeys int
	expiry  map[string]time.Time
}

func New(ttl time.Duration, maxKeys int) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &Cache{ttl: ttl, maxKeys: maxKeys, expiry: make(map[string]time.Time, maxKeys)}
}

// FirstSeen reports whether key has not been seen within the TTL, and marks
// it seen. An empty key is never deduplicated.
func (c *Cache) FirstSeen(key string) bool {
	if key == "" {
		return true
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if exp, ok := c.expiry[key]; ok && now.Before(exp) {
		return false
	}
	c.expiry[key] = now.Add(c.ttl)
	if len(c.expiry) > c.maxKeys {
		c.evict(now)
	}
	return true
}

// evict removes expired entries until the cache fits again. Caller holds mu.
func (c *Cache) evict(now time.Time) {
	for k, exp := range c.expiry {
		if now.After(exp) {
			delete(c.expiry, k)
		}
		if len(c.expiry) <= c.maxKeys {
			return
		}
	}
}
