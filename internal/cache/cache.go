// Package cache provides the short-TTL, read-through, request-coalescing
// cache shared by the tile-query and enrichment clients.
//
// Instances are explicitly constructed and injected, never package globals,
// so tests can create isolated caches and assert eviction and coalescing
// deterministically.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gigmap/internal/metrics"
)

// entry is a cached value with its staleness deadline and last-read mark.
type entry[V any] struct {
	value     V
	expiresAt time.Time
	lastRead  time.Time
}

// Cache is a thread-safe read-through cache with two eviction horizons: a
// short TTL bounding staleness, and a longer GC window that drops entries
// unused since their last read. Concurrent fetches for the same key are
// coalesced into a single underlying call.
type Cache[V any] struct {
	name     string
	ttl      time.Duration
	gcWindow time.Duration

	mu      sync.Mutex
	entries map[string]*entry[V]

	group singleflight.Group

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its background GC sweep. The name labels
// this instance in metrics. Callers own the lifecycle and must Stop the
// cache when done.
func New[V any](name string, ttl, gcWindow time.Duration) *Cache[V] {
	c := &Cache[V]{
		name:     name,
		ttl:      ttl,
		gcWindow: gcWindow,
		entries:  make(map[string]*entry[V]),
		stop:     make(chan struct{}),
	}
	go c.janitor()
	return c
}

// GetOrFetch returns the cached value for key, fetching it through fetch on
// a miss. Identical keys requested while a fetch is in flight share that
// fetch's result rather than issuing duplicate calls. A fetch error is
// returned to every waiting caller and nothing is stored.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		metrics.CacheHits.WithLabelValues(c.name).Inc()
		return v, nil
	}
	metrics.CacheMisses.WithLabelValues(c.name).Inc()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A coalesced waiter may arrive just after the winner stored the
		// value; re-check before fetching again.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		val, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, val)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Clear drops every entry. Intended for tests and cache invalidation on
// reconfiguration.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
}

// Len returns the number of live entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stop terminates the background sweep. Safe to call more than once.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	now := time.Now()
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}
	e.lastRead = now
	return e.value, true
}

func (c *Cache[V]) store(key string, value V) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry[V]{
		value:     value,
		expiresAt: now.Add(c.ttl),
		lastRead:  now,
	}
}

// janitor periodically removes expired and unused entries. The sweep
// interval follows the shorter of the two horizons so neither class of
// entry lingers much past its deadline.
func (c *Cache[V]) janitor() {
	interval := c.ttl
	if c.gcWindow < interval {
		interval = c.gcWindow
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(time.Now())
		case <-c.stop:
			return
		}
	}
}

// sweep removes entries that are past their TTL or unread for longer than
// the GC window.
func (c *Cache[V]) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) || now.Sub(e.lastRead) > c.gcWindow {
			delete(c.entries, key)
			metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		}
	}
}
