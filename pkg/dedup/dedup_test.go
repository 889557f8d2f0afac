package dedup

import (
	"fmt"
	"testing"
	"time"
)

func TestFirstSeen(t *testing.T) {
	c := New(time.Minute, 100)

	if !c.FirstSeen("a") {
		t.Error("fresh key reported as duplicate")
	}
	if c.FirstSeen("a") {
		t.Error("repeat within TTL not deduplicated")
	}
	if !c.FirstSeen("b") {
		t.Error("distinct key reported as duplicate")
	}
}

func TestEmptyKeyNeverDeduplicated(t *testing.T) {
	c := New(time.Minute, 100)
	if !c.FirstSeen("") || !c.FirstSeen("") {
		t.Error("empty key must always pass")
	}
}

func TestExpiredKeySeenAgain(t *testing.T) {
	c := New(10*time.Millisecond, 100)
	c.FirstSeen("a")
	time.Sleep(20 * time.Millisecond)
	if !c.FirstSeen("a") {
		t.Error("key past TTL still deduplicated")
	}
}

func TestEvictionKeepsCacheBounded(t *testing.T) {
	c := New(time.Nanosecond, 10)
	for i := 0; i < 1000; i++ {
		c.FirstSeen(fmt.Sprintf("key-%d", i))
	}
	c.mu.Lock()
	n := len(c.expiry)
	c.mu.Unlock()
	if n > 11 {
		t.Errorf("cache grew to %d entries, want <= maxKeys+1", n)
	}
}
