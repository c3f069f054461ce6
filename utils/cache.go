package utils

import (
	"sync/atomic"

	"github.com/floatdrop/lru"
)

type LRUCache[K comparable, T any] struct {
	values       atomic.Pointer[lru.LRU[K, T]]
	hits, misses atomic.Uint64
	size         int
}

func NewLRUCache[K comparable, T any](size int) *LRUCache[K, T] {
	c := &LRUCache[K, T]{
		size: size,
	}
	c.Clear()
	return c
}

func (c *LRUCache[K, T]) Get(key K) (value T, ok bool) {
	if v := c.values.Load().Get(key); v != nil {
		c.hits.Add(1)
		return *v, true
	} else {
		c.misses.Add(1)
		return value, false
	}
}

func (c *LRUCache[K, T]) Set(key K, value T) {
	c.values.Load().Set(key, value)
}

func (c *LRUCache[K, T]) Clear() {
	c.values.Store(lru.New[K, T](c.size))
}

func (c *LRUCache[K, T]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
