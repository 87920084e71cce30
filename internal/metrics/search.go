package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	CollectionQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "layersearch",
			Name:      "collection_queries_total",
			Help:      "Total number of per-layer queries",
		},
		[]string{"status"}, // "ok" / "error"
	)

	CollectionQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "layersearch",
			Name:      "collection_query_duration_seconds",
			Help:      "Per-layer query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"status"},
	)

	SearchPartialFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "layersearch",
			Name:      "search_partial_failures_total",
			Help:      "Searches that completed with at least one failed layer",
		},
	)

	ValueCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "layersearch",
			Name:      "value_cache_total",
			Help:      "Distinct-value cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "layersearch",
			Name:      "active_sessions",
			Help:      "Search sessions currently held in memory",
		},
	)
)

var registered bool

// Register registers the HTTP and search metrics on the default registry.
// Called once from main; repeated calls are no-ops.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(
		httpRequestDuration,
		httpRequestsTotal,
		httpResponseBytes,
		CollectionQueriesTotal,
		CollectionQueryDuration,
		SearchPartialFailuresTotal,
		ValueCacheTotal,
		ActiveSessions,
	)
	registered = true
}
