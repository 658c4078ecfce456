// Package plancache is the planner's result cache (§4.3): plans are
// keyed by the bound logical tree's structural Digest, held in an
// in-memory LRU, and optionally warm-started from a BoltDB file holding
// only a cost summary per digest — never an executable tree, since an
// operator tree is only ever valid for the process that built it.
package plancache

import (
	"container/list"
	"sync"

	"github.com/cottontaildb/queryengine/physical"
)

// entry is the value held at each list element; key is duplicated here
// so an eviction can find the map entry it must also delete.
type entry struct {
	key  uint64
	plan physical.Node
}

// Cache is a fixed-capacity, digest-keyed LRU cache of selected physical
// plans. Safe for concurrent use: the planner looks plans up and inserts
// them from whichever goroutine is serving a given query.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	index    map[uint64]*list.Element

	hits, misses int64
}

// New builds a Cache holding at most capacity entries. capacity <= 0
// disables eviction entirely (unbounded growth) — callers that want the
// §4.3-required bound should always pass a positive capacity.
func New(capacity int) *Cache {
	return &Cache{capacity: capacity, ll: list.New(), index: make(map[uint64]*list.Element)}
}

// Get returns the cached plan for digest, if present, and marks it most
// recently used.
func (c *Cache) Get(digest uint64) (physical.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[digest]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).plan, true
}

// Put inserts or refreshes the cached plan for digest, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *Cache) Put(digest uint64, plan physical.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[digest]; ok {
		el.Value.(*entry).plan = plan
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&entry{key: digest, plan: plan})
	c.index[digest] = el
	if c.capacity > 0 && c.ll.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *Cache) evictOldest() {
	oldest := c.ll.Back()
	if oldest == nil {
		return
	}
	c.ll.Remove(oldest)
	delete(c.index, oldest.Value.(*entry).key)
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats returns the cumulative hit/miss counts since the cache was
// created, for the cache hit/miss logging SPEC_FULL.md's ambient-stack
// section asks for.
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
