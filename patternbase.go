package patternbase

import (
	"log/slog"
	"time"

	"github.com/soundprediction/patternbase/pkg/cache"
	"github.com/soundprediction/patternbase/pkg/search"
	"github.com/soundprediction/patternbase/pkg/store"
	"github.com/soundprediction/patternbase/pkg/types"
)

// Default cache parameters used when Options leaves them zero.
const (
	DefaultCacheSize     = 100
	DefaultCacheTTL      = 5 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Options configures a Client. The zero value is usable.
type Options struct {
	// CacheSize is the maximum number of cached query results.
	CacheSize int
	// CacheTTL is how long a cached result stays fresh.
	CacheTTL time.Duration
	// SweepInterval is the cadence of the background expiry sweep.
	// Negative disables the sweeper; zero means DefaultSweepInterval.
	SweepInterval time.Duration
	// Logger receives structured logs from all components.
	Logger *slog.Logger
	// Observer, when set, is notified of every executed search.
	Observer SearchObserver
}

// SearchObserver receives executed searches, e.g. for telemetry.
type SearchObserver interface {
	Record(q *types.SearchQuery, results *types.SearchResults, cacheHit bool)
}

// Client wires the knowledge store, the search engine, and the query
// cache together. All state is owned by the client; nothing is global.
type Client struct {
	store    *store.KnowledgeStore
	engine   *search.Engine
	results  *cache.Cache[*types.SearchResults]
	cacheTTL time.Duration
	logger   *slog.Logger
	observer SearchObserver
}

// NewClient creates a client with its own store, engine, and cache.
// opts may be nil.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	ks := store.New(logger)
	c := &Client{
		store:    ks,
		engine:   search.New(ks, logger),
		results:  cache.New[*types.SearchResults](size),
		cacheTTL: ttl,
		logger:   logger,
		observer: opts.Observer,
	}

	sweep := opts.SweepInterval
	if sweep == 0 {
		sweep = DefaultSweepInterval
	}
	if sweep > 0 {
		c.results.StartSweeper(sweep)
	}
	return c
}

// Store exposes the knowledge store for population and persistence
// collaborators.
func (c *Client) Store() *store.KnowledgeStore { return c.store }

// Add inserts or replaces a record.
func (c *Client) Add(rec types.Record) error {
	return c.store.Add(rec)
}

// Search answers a query, serving repeated queries from the cache. The
// cached result for a key is invalidated by TTL, capacity pressure, or
// ClearAll; staleness after an Add is bounded by the cache TTL.
func (c *Client) Search(q *types.SearchQuery) (*types.SearchResults, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := search.CacheKey(q)
	if cached, ok := c.results.Get(key); ok {
		if c.observer != nil {
			c.observer.Record(q, cached, true)
		}
		return cached, nil
	}

	results, err := c.engine.Search(q)
	if err != nil {
		return nil, err
	}
	c.results.Set(key, results, c.cacheTTL)
	if c.observer != nil {
		c.observer.Record(q, results, false)
	}
	return results, nil
}

// Pattern returns a stored pattern by ID.
func (c *Client) Pattern(id string) (*types.Pattern, bool) {
	return c.store.Pattern(id)
}

// Example returns a stored example by ID.
func (c *Client) Example(id string) (*types.Example, bool) {
	return c.store.Example(id)
}

// Get returns any record by variant and ID.
func (c *Client) Get(kind types.Kind, id string) (types.Record, bool) {
	return c.store.Get(kind, id)
}

// StoreStats reports record counts per variant.
func (c *Client) StoreStats() types.StoreStats {
	return c.store.Stats()
}

// CacheStats reports query-cache accounting.
func (c *Client) CacheStats() types.CacheStats {
	return c.results.Stats()
}

// ClearAll resets the store and drops every cached result.
func (c *Client) ClearAll() {
	c.store.Clear()
	c.results.Clear()
	c.logger.Info("store and cache cleared")
}

// Close stops the cache sweeper. The client must not be used afterwards.
func (c *Client) Close() {
	c.results.Close()
}
