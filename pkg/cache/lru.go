// Package cache provides the bounded memoization cache used by the tokenizer
// and the CLI renderer.
//
// LRU is not safe for concurrent mutation. Confine one instance to a single
// goroutine or guard it with an external mutex.
package cache

import (
	"github.com/bastiangx/glosstip/pkg/errs"
	"github.com/charmbracelet/log"
)

type entry[K comparable, V any] struct {
	prev, next *entry[K, V]
	key        K
	value      V
}

// LRU is a fixed-capacity cache that evicts the entry not read the longest.
// Only Get changes recency; Put on an existing key overwrites the value in place.
type LRU[K comparable, V any] struct {
	entries    map[K]*entry[K, V]
	capacity   int
	head, tail *entry[K, V] // sentinels: head.next is most recent, tail.prev least

	hits      int64
	misses    int64
	evictions int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries   int   `msgpack:"n"`
	Capacity  int   `msgpack:"cap"`
	Hits      int64 `msgpack:"hit"`
	Misses    int64 `msgpack:"miss"`
	Evictions int64 `msgpack:"ev"`
}

// New creates an LRU holding at most capacity entries.
func New[K comparable, V any](capacity int) (*LRU[K, V], error) {
	if capacity <= 0 {
		return nil, errs.Config("cache capacity", capacity, "must be a positive integer")
	}
	c := &LRU[K, V]{
		entries:  make(map[K]*entry[K, V], capacity),
		capacity: capacity,
		head:     &entry[K, V]{},
		tail:     &entry[K, V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c, nil
}

// Get returns the value for key and promotes it to most recently used.
// A miss has no side effect beyond the miss counter.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.unlink(e)
	c.pushFront(e)
	return e.value, true
}

// Peek returns the value for key without touching recency or counters.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	if e, ok := c.entries[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Put stores value under key. A new key at capacity first evicts the least
// recently read entry. An existing key keeps its position.
func (c *LRU[K, V]) Put(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		return
	}
	if len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)
}

// Len returns the number of stored entries.
func (c *LRU[K, V]) Len() int {
	return len(c.entries)
}

// Capacity returns the fixed capacity.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Clear drops every entry. Counters are kept.
func (c *LRU[K, V]) Clear() {
	clear(c.entries)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats returns the current counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Entries:   len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *LRU[K, V]) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.unlink(oldest)
	delete(c.entries, oldest.key)
	c.evictions++
	log.Debugf("Evicted cache entry %v", oldest.key)
}

func (c *LRU[K, V]) pushFront(e *entry[K, V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRU[K, V]) unlink(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
}
