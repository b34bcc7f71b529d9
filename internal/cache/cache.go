// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// DefaultTTL is how long a completed result stays cached when the caller
// does not configure a TTL.
const DefaultTTL = time.Hour

type entry struct {
	result    types.QueryResult
	expiresAt time.Time
}

// Cache stores completed query results keyed by fingerprint, evicting them
// after a fixed TTL. Expiry is checked lazily on Get and swept on Put, so no
// background goroutine runs and tests can drive time through an injected
// clock. At most one entry exists per fingerprint; Put on an existing
// fingerprint overwrites it and resets the timer.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock substitutes the time source, for deterministic eviction tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger attaches a logger for hit/eviction events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New returns a Cache with the given TTL. A non-positive TTL selects
// DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached result for fp, or false when absent or expired.
// The returned result is a copy with Metadata.Cached set; the stored entry
// is never mutated, so the first caller's view stays pristine.
func (c *Cache) Get(fp string) (*types.QueryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fp]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, fp)
		c.logger.Debug("cache entry expired", zap.String("fingerprint", short(fp)))
		return nil, false
	}

	out := e.result
	out.Metadata.Cached = true
	c.logger.Debug("cache hit", zap.String("fingerprint", short(fp)))
	return &out, true
}

// short truncates a fingerprint for log lines.
func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// Put stores result under fp with a fresh TTL, overwriting any previous
// entry, and sweeps expired entries while it holds the lock.
func (c *Cache) Put(fp string, result *types.QueryResult) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[fp] = entry{result: *result, expiresAt: now.Add(c.ttl)}
}

// Invalidate removes the entry for fp, if any.
func (c *Cache) Invalidate(fp string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fp)
}

// Len returns the number of stored entries, including any not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
