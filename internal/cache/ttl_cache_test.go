package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)

	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("got %d/%v, want 1/true", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Nanosecond)
	time.Sleep(time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected zero-TTL entry to persist")
	}
}

func TestTTLCachePurge(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Purge()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected purge to drop a")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected purge to drop b")
	}
}

func TestTTLCacheNilSafe(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("a", 1, time.Minute)
	c.Delete("a")
	c.Purge()
	if _, ok := c.Get("a"); ok {
		t.Fatal("nil cache must always miss")
	}
}
