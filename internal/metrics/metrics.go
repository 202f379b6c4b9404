// Package metrics exposes prometheus counters and histograms for the
// catalog manager's non-interactive paths: cache hit/miss rates, search
// latency, and install outcomes. The browser itself does not scrape these
// directly; they exist for a headless `crm` process running with a
// metrics endpoint enabled via an opt-in flag.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "catalog",
		Name:      "cache_hits_total",
		Help:      "Loader cache hits by tier (lru, disk, index).",
	}, []string{"tier"})

	CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "catalog",
		Name:      "cache_misses_total",
		Help:      "Loader cache misses by tier.",
	}, []string{"tier"})

	SearchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crm",
		Subsystem: "search",
		Name:      "latency_seconds",
		Help:      "Search call latency by mode.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	InstallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "installer",
		Name:      "installs_total",
		Help:      "Completed installs by outcome (ok, skipped, failed).",
	}, []string{"outcome"})
)

// Registry bundles every collector above so the CLI can register them with
// a single call when --metrics-addr is set.
func Registry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(CacheHits, CacheMisses, SearchLatency, InstallsTotal)
	return r
}
