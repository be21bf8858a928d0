// Package cache holds query results keyed by logical query identity.
//
// Each key carries its own freshness window, supplied by the caller on every
// read. A stale or missing key is reloaded through the caller's loader, and
// concurrent readers of the same key share one load (single-flight). Loader
// failures reach every waiter and are never stored.
//
// Invalidation removes entries immediately and detaches any load that is still
// running for the key, so the next Get always reloads. A caller that stops
// waiting (its context is done) does not abort the load: it runs to completion
// and populates the cache for whoever asks next.
//
// The number of keys is bounded; the least recently used key is evicted first.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxEntries bounds the key count when New is given a non-positive size.
const DefaultMaxEntries = 512

var tracer = otel.Tracer("github.com/carmarket/carmarket-go/internal/cache")

// Loader produces the value for a key on a cache miss.
type Loader func(ctx context.Context) (any, error)

// Entry is a stored value and the time it was fetched.
type Entry struct {
	Value     any
	FetchedAt time.Time
}

// Stats reports cache activity since construction or the last Purge.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Loads   uint64 `json:"loads"`
	Shared  uint64 `json:"shared"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache is a keyed store of query results. The zero value is not usable; call New.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, Entry]
	// flights maps a key to the id of the load currently allowed to store it.
	flights    map[string]uint64
	nextFlight uint64
	group      singleflight.Group
	now        func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
	loads  atomic.Uint64
	shared atomic.Uint64
}

// New creates a Cache holding at most maxEntries keys.
func New(maxEntries int, opts ...Option) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, Entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	c := &Cache{
		entries: entries,
		flights: make(map[string]uint64),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value for key if it was fetched less than window ago.
// Otherwise it runs load, stores the result and returns it. Concurrent calls
// for the same key share a single load.
func (c *Cache) Get(ctx context.Context, key string, window time.Duration, load Loader) (any, error) {
	if value, ok := c.Peek(key, window); ok {
		c.hits.Add(1)
		return value, nil
	}
	c.misses.Add(1)

	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(ctx, key, window, load)
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load runs inside the single-flight group. It re-checks freshness because a
// previous flight may have stored the key between the caller's miss and now.
func (c *Cache) load(ctx context.Context, key string, window time.Duration, load Loader) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries.Get(key); ok && c.fresh(e, window) {
		c.mu.Unlock()
		return e.Value, nil
	}
	c.nextFlight++
	flight := c.nextFlight
	c.flights[key] = flight
	c.mu.Unlock()

	ctx, span := tracer.Start(context.WithoutCancel(ctx), "cache.load",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	c.loads.Add(1)
	value, err := load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.flights[key] == flight
	if current {
		delete(c.flights, key)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !current {
		slog.Debug("cache load finished after invalidation, not stored", "key", key)
		span.SetAttributes(attribute.Bool("cache.discarded", true))
		return value, nil
	}
	c.entries.Add(key, Entry{Value: value, FetchedAt: c.now()})
	return value, nil
}

// Peek returns the value for key if it is fresh, without loading.
func (c *Cache) Peek(key string, window time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(key)
	if !ok || !c.fresh(e, window) {
		return nil, false
	}
	return e.Value, true
}

func (c *Cache) fresh(e Entry, window time.Duration) bool {
	return c.now().Sub(e.FetchedAt) < window
}

// Set stores value for key as freshly fetched. Any load still running for key
// is detached so it cannot overwrite the value.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detach(key)
	c.entries.Add(key, Entry{Value: value, FetchedAt: c.now()})
}

// Invalidate removes key. The next Get for key reloads regardless of freshness.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Remove(key)
	c.detach(key)
	slog.Debug("cache invalidated", "key", key)
}

// InvalidatePrefix removes every key starting with prefix and returns how many
// stored entries were removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Remove(key)
			removed++
		}
	}
	for key := range c.flights {
		if strings.HasPrefix(key, prefix) {
			c.detach(key)
		}
	}
	slog.Debug("cache invalidated by prefix", "prefix", prefix, "removed", removed)
	return removed
}

// detach stops a running load for key from storing its result and makes the
// next Get start a new load. Callers hold c.mu.
func (c *Cache) detach(key string) {
	delete(c.flights, key)
	c.group.Forget(key)
}

// Snapshot returns a copy of every stored entry keyed by cache key.
func (c *Cache) Snapshot() map[string]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.entries.Keys()
	snap := make(map[string]Entry, len(keys))
	for _, key := range keys {
		if e, ok := c.entries.Peek(key); ok {
			snap[key] = e
		}
	}
	return snap
}

// Len returns the number of stored keys.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Stats returns activity counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries: c.entries.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Loads:   c.loads.Load(),
		Shared:  c.shared.Load(),
	}
}

// Purge drops every entry and detaches running loads. Used when the owning
// session ends.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.flights {
		c.detach(key)
	}
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
	c.loads.Store(0)
	c.shared.Store(0)
}

// Fetch is Get with a typed result.
func Fetch[T any](ctx context.Context, c *Cache, key string, window time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := c.Get(ctx, key, window, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T, want %T", key, value, zero)
	}
	return typed, nil
}

// Lookup is Peek with a typed result. A value of another type reports false.
func Lookup[T any](c *Cache, key string, window time.Duration) (T, bool) {
	var zero T
	value, ok := c.Peek(key, window)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
