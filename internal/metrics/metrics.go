// Package metrics exposes Prometheus counters for the discovery pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheHits counts read-through cache hits per cache instance.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigmap_cache_hits_total",
		Help: "Cache hits by cache name.",
	}, []string{"cache"})

	// CacheMisses counts read-through cache misses per cache instance.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigmap_cache_misses_total",
		Help: "Cache misses by cache name.",
	}, []string{"cache"})

	// CacheEvictions counts entries removed by TTL expiry or the
	// unused-entry GC sweep.
	CacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigmap_cache_evictions_total",
		Help: "Cache evictions by cache name.",
	}, []string{"cache"})

	// TileQueries counts individual tile queries by result
	// (ok, empty, error, timeout).
	TileQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigmap_tile_queries_total",
		Help: "Tile queries against the spatial index by result.",
	}, []string{"result"})

	// DiscoveryRuns counts discovery pipeline runs by outcome
	// (ready, partial, errored, stale).
	DiscoveryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigmap_discovery_runs_total",
		Help: "Discovery pipeline runs by outcome.",
	}, []string{"outcome"})
)

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
