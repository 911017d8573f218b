// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

// Cache is a generic LRU map holding at most limit entries.
type Cache[K comparable, V any] struct {
	limit   int
	entries map[K]*lruNode[K, V]
	order   lruList[K, V]
	onEvict func(K, V)
}

// New creates a cache holding at most limit entries. A limit of 0 means
// unlimited. onEvict may be nil.
func New[K comparable, V any](limit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		limit:   limit,
		entries: make(map[K]*lruNode[K, V]),
		onEvict: onEvict,
	}
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int { return len(c.entries) }

// Limit returns the maximum number of entries, or 0 if unlimited.
func (c *Cache[K, V]) Limit() int { return c.limit }

// Get retrieves a value and marks it most recently used.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(node)
	return node.value, true
}

// Add stores a value as most recently used. An existing value for key is
// replaced without eviction. The least recently used entries are evicted
// while the cache is over its limit.
func (c *Cache[K, V]) Add(key K, value V) {
	if node, ok := c.entries[key]; ok {
		node.value = value
		c.order.MoveToFront(node)
		return
	}
	c.entries[key] = c.order.PushFront(key, value)

	for c.limit > 0 && len(c.entries) > c.limit {
		c.evict(c.order.Oldest())
	}
}

// RemoveFunc evicts every entry for which match returns true and returns
// how many were evicted.
func (c *Cache[K, V]) RemoveFunc(match func(K, V) bool) int {
	n := 0
	for node := c.order.head; node != nil; {
		next := node.next
		if match(node.key, node.value) {
			c.evict(node)
			n++
		}
		node = next
	}
	return n
}

// Purge evicts every entry, least recently used first.
func (c *Cache[K, V]) Purge() {
	for node := c.order.Oldest(); node != nil; node = c.order.Oldest() {
		c.evict(node)
	}
}

func (c *Cache[K, V]) evict(node *lruNode[K, V]) {
	c.order.Remove(node)
	delete(c.entries, node.key)
	if c.onEvict != nil {
		c.onEvict(node.key, node.value)
	}
}
