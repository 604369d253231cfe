// Package metrics registers the Prometheus collectors the catalog,
// comparator, and duplicate-discovery engine report against, following
// the promauto registration pattern the rest of the dependency stack
// uses for cache and persistence instrumentation.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the duplicate-detection engine.
type Metrics struct {
	// Catalog metrics
	CatalogFilesIndexed  prometheus.GaugeVec
	IndexInsertDuration  prometheus.HistogramVec
	CandidateCountPerCall prometheus.HistogramVec

	// Comparator metrics
	CompareDuration   prometheus.HistogramVec
	CompareTotal      prometheus.CounterVec
	DuplicatesFound   prometheus.CounterVec

	// Duplicate-discovery metrics
	DiscoveryDuration  prometheus.HistogramVec
	GroupsDiscovered   prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal         prometheus.CounterVec
	CacheMissesTotal       prometheus.CounterVec
	CacheOperationDuration prometheus.HistogramVec

	// Persistence metrics
	DatabaseQueryDuration prometheus.HistogramVec
	DatabaseQueriesTotal  prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			CatalogFilesIndexed: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "catalog_files_indexed",
					Help: "Number of files currently held in the catalog",
				},
				[]string{"catalog"},
			),
			IndexInsertDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "index_insert_duration_seconds",
					Help:    "Time to insert a fingerprint into the inverted index",
					Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
				},
				[]string{"catalog"},
			),
			CandidateCountPerCall: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "index_candidate_count",
					Help:    "Number of candidates returned per Candidates() call",
					Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
				},
				[]string{"catalog"},
			),

			CompareDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "compare_duration_seconds",
					Help:    "Time to run a single fingerprint comparison",
					Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
				},
				[]string{"mode"},
			),
			CompareTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "compare_total",
					Help: "Total number of fingerprint comparisons performed",
				},
				[]string{"mode"},
			),
			DuplicatesFound: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "duplicates_found_total",
					Help: "Total number of pairs found to be duplicates",
				},
				[]string{"mode"},
			),

			DiscoveryDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "discovery_duration_seconds",
					Help:    "Wall-clock time of a full duplicate-discovery pass",
					Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
				},
				[]string{"catalog"},
			),
			GroupsDiscovered: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "duplicate_groups_discovered",
					Help: "Number of duplicate groups found in the most recent discovery pass",
				},
				[]string{"catalog"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of candidate-list cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of candidate-list cache misses",
				},
				[]string{"cache_name"},
			),
			CacheOperationDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "cache_operation_duration_seconds",
					Help:    "Cache operation latency in seconds",
					Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
				},
				[]string{"operation", "cache_name"},
			),

			DatabaseQueryDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "database_query_duration_seconds",
					Help:    "Database query latency in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"query_type", "table"},
			),
			DatabaseQueriesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "database_queries_total",
					Help: "Total number of database queries",
				},
				[]string{"query_type", "table", "status"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by code",
				},
				[]string{"code"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance, initializing it if needed.
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
