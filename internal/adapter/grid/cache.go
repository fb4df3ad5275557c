package grid

import (
	"context"
	"sync"

	"github.com/windlore/weathergen/internal/domain"
	"github.com/windlore/weathergen/internal/observability"
)

// CachedSource wraps a GridSource with an in-memory LRU cache. A single
// pipeline run consults each channel-hour key exactly once and therefore
// only ever misses; the cache and its size knob matter only to processes
// that run the pipeline repeatedly over the same raster tree.
type CachedSource struct {
	inner   domain.GridSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a grid source.
func NewCachedSource(inner domain.GridSource, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Lookup answers repeated channel-hour queries from memory. Absent answers
// are cached alongside present ones: the raster tree does not change under
// a running process, so an hour the grid cannot supply stays unsuppliable.
func (c *CachedSource) Lookup(ctx context.Context, ch domain.Channel, ts domain.Timestamp) (float64, bool, error) {
	key := cacheKey{ch: ch, unix: ts.UTC().Unix()}
	if v, hit := c.cache.get(key); hit {
		c.metrics.GridCache.WithLabelValues("hit").Inc()
		return v.value, v.ok, nil
	}
	c.metrics.GridCache.WithLabelValues("miss").Inc()

	value, ok, err := c.inner.Lookup(ctx, ch, ts)
	if err != nil {
		return value, ok, err
	}
	c.cache.put(key, cachedValue{value: value, ok: ok})
	return value, ok, nil
}

// Serves reports the wrapped source's channel coverage.
func (c *CachedSource) Serves(ch domain.Channel) bool { return c.inner.Serves(ch) }

// cacheKey identifies one channel-hour answer.
type cacheKey struct {
	ch   domain.Channel
	unix int64
}

type cachedValue struct {
	value float64
	ok    bool
}

// lruCache is a simple thread-safe LRU cache for grid answers.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[cacheKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   cacheKey
	value cachedValue
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[cacheKey]*entry),
	}
}

func (c *lruCache) get(key cacheKey) (cachedValue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return cachedValue{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key cacheKey, value cachedValue) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
