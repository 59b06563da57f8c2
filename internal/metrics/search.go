package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SourceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mechfinder",
			Name:      "source_requests_total",
			Help:      "Total number of upstream source requests",
		},
		[]string{"source", "status"},
	)

	SourceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mechfinder",
			Name:      "source_request_duration_seconds",
			Help:      "Upstream source request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	ChainExclusionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mechfinder",
			Name:      "chain_exclusions_total",
			Help:      "Provider results dropped by the chain-store denylist",
		},
	)

	DegradedSearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mechfinder",
			Name:      "degraded_searches_total",
			Help:      "Searches that returned partial results because a source failed",
		},
	)

	CategoryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mechfinder",
			Name:      "category_cache_total",
			Help:      "Category taxonomy cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SourceRequestsTotal)
	prometheus.MustRegister(SourceRequestDuration)
	prometheus.MustRegister(ChainExclusionsTotal)
	prometheus.MustRegister(DegradedSearchesTotal)
	prometheus.MustRegister(CategoryCacheTotal)
	searchMetricsRegistered = true
}
