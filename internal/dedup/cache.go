// Package dedup implements the deduplication filter of spec.md §4.5: a
// TTL-LRU keyed on normalized SQL. A Cache is NOT safe for concurrent use —
// it is meant to be owned by exactly one goroutine at a time (see the root
// package's WorkerValidator), matching the "per-thread, no synchronization"
// contract the spec describes.
package dedup

import (
	"container/list"
	"time"

	"github.com/sqlshield/sqlshield/internal/model"
)

// DefaultSize and DefaultTTL mirror spec.md §4.5's defaults.
const (
	DefaultSize = 1000
	DefaultTTL  = 100 * time.Millisecond
)

type entry struct {
	key        string
	result     *model.ValidationResult
	insertedAt time.Time
}

// Cache is a fixed-capacity LRU with a per-entry TTL, keyed on Normalize'd
// SQL. It intentionally reimplements a small LRU (rather than wrapping
// hashicorp/golang-lru, which the parse façade uses) because evictions here
// must also happen on TTL expiry at lookup time, not only on capacity
// overflow, and because the zero-synchronization contract rules out
// borrowing a cache instance designed for concurrent use.
type Cache struct {
	size  int
	ttl   time.Duration
	items map[string]*list.Element
	order *list.List // front = most recently used
	now   func() time.Time
}

// New builds a Cache. size <= 0 uses DefaultSize; ttl <= 0 uses DefaultTTL.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		size:  size,
		ttl:   ttl,
		items: make(map[string]*list.Element, size),
		order: list.New(),
		now:   time.Now,
	}
}

// Probe normalizes sql and returns the cached result, if any and not
// stale. A stale hit is evicted and reported as a miss.
func (c *Cache) Probe(sql string) (*model.ValidationResult, bool) {
	key := Normalize(sql)
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.removeElement(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.result.Clone(), true
}

// Store normalizes sql and inserts result, evicting the LRU victim if the
// cache is at capacity.
func (c *Cache) Store(sql string, result *model.ValidationResult) {
	key := Normalize(sql)
	stored := result.Clone()
	if el, ok := c.items[key]; ok {
		el.Value.(*entry).result = stored
		el.Value.(*entry).insertedAt = c.now()
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.size {
		c.evictOldest()
	}
	el := c.order.PushFront(&entry{key: key, result: stored, insertedAt: c.now()})
	c.items[key] = el
}

// Len reports the number of live (not necessarily unexpired) entries.
func (c *Cache) Len() int { return c.order.Len() }

func (c *Cache) evictOldest() {
	oldest := c.order.Back()
	if oldest != nil {
		c.removeElement(oldest)
	}
}

func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
