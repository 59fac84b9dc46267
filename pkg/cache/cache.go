package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/soundprediction/patternbase/pkg/types"
)

// DefaultMaxSize is used when New is given a non-positive capacity.
const DefaultMaxSize = 100

// entry is the stored value plus its access metadata. A zero ttl means
// the entry never expires.
type entry[V any] struct {
	key            string
	value          V
	insertedAt     time.Time
	ttl            time.Duration
	accessCount    int64
	lastAccessedAt time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.insertedAt) >= e.ttl
}

// Cache is an LRU cache with optional per-entry TTL. All methods are safe
// for concurrent use; the sweeper goroutine shares the same lock.
type Cache[V any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	// Recency order: front is least recently used, back is most.
	order *list.List

	hits      int64
	misses    int64
	evictions int64

	sweepTicker *time.Ticker
	sweepDone   chan struct{}
}

// New creates a cache holding at most maxSize entries.
func New[V any](maxSize int) *Cache[V] {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache[V]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the value for key if present and unexpired, updating the
// entry's access metadata and recency. An expired entry is removed as a
// side effect and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	e := el.Value.(*entry[V])
	now := time.Now()
	if e.expired(now) {
		c.remove(el)
		c.misses++
		return zero, false
	}

	e.accessCount++
	e.lastAccessedAt = now
	c.order.MoveToBack(el)
	c.hits++
	return e.value, true
}

// Set inserts or overwrites the value for key. A ttl of zero (or less)
// disables expiry for the entry. When the cache is at capacity the entry
// at the front of the recency order is evicted first.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.insertedAt = now
		e.ttl = ttl
		e.accessCount = 0
		e.lastAccessedAt = now
		c.order.MoveToBack(el)
		return
	}

	if len(c.items) >= c.maxSize {
		if front := c.order.Front(); front != nil {
			c.remove(front)
			c.evictions++
		}
	}

	el := c.order.PushBack(&entry[V]{
		key:            key,
		value:          value,
		insertedAt:     now,
		ttl:            ttl,
		lastAccessedAt: now,
	})
	c.items[key] = el
}

// Has reports whether key is present and unexpired without mutating
// recency or the hit/miss counters.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	return !el.Value.(*entry[V]).expired(time.Now())
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(el)
	return true
}

// Clear removes all entries. Counters are preserved; they are cumulative
// over the cache's lifetime.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns a snapshot of the cache counters. HitRate is recomputed
// on every call as hits/(hits+misses).
func (c *Cache[V]) Stats() types.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return types.CacheStats{
		Hits:          c.hits,
		Misses:        c.misses,
		HitRate:       rate,
		Size:          len(c.items),
		MaxSize:       c.maxSize,
		Evictions:     c.evictions,
		TotalRequests: total,
	}
}

// StartSweeper begins periodic removal of expired entries. The sweep is a
// performance optimization on top of lazy expiry, not a correctness
// requirement. Starting an already-running sweeper is a no-op.
func (c *Cache[V]) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweepDone != nil {
		return
	}

	c.sweepTicker = time.NewTicker(interval)
	c.sweepDone = make(chan struct{})
	go c.sweepLoop(c.sweepTicker, c.sweepDone)
}

func (c *Cache[V]) sweepLoop(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-ticker.C:
			c.RemoveExpired()
		case <-done:
			ticker.Stop()
			return
		}
	}
}

// RemoveExpired removes every expired entry and returns how many were
// removed. The sweeper calls this on each tick; it is exported so callers
// without a sweeper can compact on their own schedule.
func (c *Cache[V]) RemoveExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*entry[V]).expired(now) {
			c.remove(el)
			removed++
		}
		el = next
	}
	return removed
}

// Close stops the sweeper if one is running. The cache remains usable.
func (c *Cache[V]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweepDone == nil {
		return
	}
	close(c.sweepDone)
	c.sweepDone = nil
	c.sweepTicker = nil
}

// remove drops an element from both the map and the recency list.
// Callers hold the lock.
func (c *Cache[V]) remove(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(el)
}
