// Package querycache provides a single-entry, TTL-gated, read-through
// cache for upstream list queries. One cache instance holds the results of
// the most recent query; a new query with a different canonical key
// replaces the entry rather than merging into it.
package querycache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTTL matches the freshness window the booking flow expects.
const DefaultTTL = 5 * time.Minute

// FetchFunc performs the network fetch behind a cache miss.
type FetchFunc[T any] func(ctx context.Context, params map[string]string) ([]T, error)

// Result distinguishes the three load outcomes callers must tell apart:
// fresh success (Stale false, Err nil), stale fallback after a failed
// refresh (Stale true, Err set), and hard failure with no data (error
// returned from Load itself).
type Result[T any] struct {
	Items []T
	Stale bool
	Err   error
}

type Cache[T any] struct {
	fetch FetchFunc[T]
	ttl   time.Duration
	now   func() time.Time

	mu         sync.Mutex
	key        string
	fetchedAt  time.Time
	items      []T
	loading    bool
	lastErr    error
	generation uint64
}

func New[T any](ttl time.Duration, fetch FetchFunc[T]) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load returns cached results when the canonical key matches, the entry is
// within TTL, and the entry is non-empty. Otherwise it fetches. On fetch
// failure it falls back to the existing stale entry if there is one,
// surfacing the error in the Result; with nothing cached the failure
// propagates.
//
// A generation counter guards against out-of-order completion: a fetch
// that was superseded by a later Load does not overwrite the newer entry.
// Its caller still receives the fetched items.
func (c *Cache[T]) Load(ctx context.Context, params map[string]string, forceRefresh bool) (Result[T], error) {
	key := Canonicalize(params)

	c.mu.Lock()
	if !forceRefresh && c.validLocked(key) {
		items := append([]T(nil), c.items...)
		c.mu.Unlock()
		return Result[T]{Items: items}, nil
	}
	c.generation++
	gen := c.generation
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()

	items, err := c.fetch(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		c.lastErr = err
		if len(c.items) == 0 {
			return Result[T]{}, err
		}
		stale := append([]T(nil), c.items...)
		return Result[T]{Items: stale, Stale: true, Err: err}, nil
	}

	if gen == c.generation {
		c.key = key
		c.fetchedAt = c.now()
		c.items = items
	}
	return Result[T]{Items: items}, nil
}

func (c *Cache[T]) validLocked(key string) bool {
	if c.key == "" || c.fetchedAt.IsZero() {
		return false
	}
	return c.key == key &&
		c.now().Sub(c.fetchedAt) < c.ttl &&
		len(c.items) > 0
}

// Clear resets the cache to empty. It does not cancel in-flight fetches;
// the generation bump keeps their late results from repopulating the
// cache.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.fetchedAt = time.Time{}
	c.items = nil
	c.lastErr = nil
	c.generation++
}

// Items returns a copy of the current cache contents, whatever their age.
func (c *Cache[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Loading reports whether a fetch is in flight.
func (c *Cache[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error from the most recent failed fetch, if any.
func (c *Cache[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Canonicalize serializes query parameters with stable key order so that
// logically identical queries hit the same cache entry regardless of how
// the parameter map was built. Empty values are dropped.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}
