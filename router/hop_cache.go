package router

import (
	"container/list"
	"sync"

	"github.com/transitshape/shapegen/tgraph"
)

// hopKey identifies one cached (from-edge, to-edge) cost lookup.
type hopKey struct {
	from, to tgraph.EdgeID
}

type hopEntry struct {
	key  hopKey
	cost float64
}

// HopCache is a process-local, size-bounded LRU over (from-edge, to-edge)
// costs, shared across a worker pool's concurrent hop searches. Built on
// container/list the way a textbook LRU is, made concurrency-safe with a
// mutex since workers share one cache.
type HopCache struct {
	mu    sync.Mutex
	size  int
	ll    *list.List
	index map[hopKey]*list.Element
}

// NewHopCache returns an LRU bounded to size entries. size <= 0 means
// unbounded.
func NewHopCache(size int) *HopCache {
	return &HopCache{size: size, ll: list.New(), index: make(map[hopKey]*list.Element)}
}

// Get returns the cached cost for (from, to) and whether it was present.
func (c *HopCache) Get(from, to tgraph.EdgeID) (float64, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	k := hopKey{from, to}
	e, ok := c.index[k]
	if !ok {
		return 0, false
	}
	c.ll.MoveToFront(e)
	return e.Value.(*hopEntry).cost, true
}

// Put records cost for (from, to), evicting the least-recently-used entry
// if the cache is at capacity.
func (c *HopCache) Put(from, to tgraph.EdgeID, cost float64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	k := hopKey{from, to}
	if e, ok := c.index[k]; ok {
		c.ll.MoveToFront(e)
		e.Value.(*hopEntry).cost = cost
		return
	}
	e := c.ll.PushFront(&hopEntry{key: k, cost: cost})
	c.index[k] = e
	if c.size > 0 && c.ll.Len() > c.size {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.index, oldest.Value.(*hopEntry).key)
		}
	}
}

// Len reports the current number of cached entries.
func (c *HopCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
