// Package cache provides a generic, string-keyed LRU cache with optional
// per-entry time-to-live.
//
// The cache is a best-effort accelerator: no operation returns an error,
// a miss is a normal outcome, and correctness never depends on cache
// contents. Capacity overflow evicts the least-recently-used entry.
// Expired entries are removed lazily on access and, when a sweeper is
// started, eagerly on a periodic tick so idle caches do not accumulate
// dead entries.
//
// # Lifecycle
//
//	c := cache.New[string](100)
//	c.StartSweeper(time.Minute)
//	defer c.Close()
//
// The sweeper is owned by the cache and stopped by Close; it is never a
// fire-and-forget timer.
//
// # Statistics
//
// Stats reports cumulative hits, misses, and capacity evictions, plus the
// derived hit rate hits/(hits+misses). Has checks presence and freshness
// without touching recency or the counters.
package cache
