package utils

import (
	"testing"
)

func TestLRUCacheStats(t *testing.T) {
	c := NewLRUCache[int, string](4)
	if _, ok := c.Get(1); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	c.Set(1, "one")
	if v, ok := c.Get(1); !ok || v != "one" {
		t.Fatal("expected cached value back")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d and %d", hits, misses)
	}
}
