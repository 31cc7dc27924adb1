package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "catalog"

// Media resolution outcomes.
const (
	MediaResolved = "resolved"
	MediaFallback = "fallback"
	MediaAbsent   = "absent"
)

// Catalog query Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of catalog queries by operation and retrieval strategy",
		},
		[]string{"operation", "strategy"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Catalog query duration in seconds, media enrichment included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	SearchFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_fallback_total",
			Help:      "Text searches answered by the substring fallback scan",
		},
	)

	MediaResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_resolutions_total",
			Help:      "Media reference resolutions by outcome",
		},
		[]string{"result"}, // resolved / fallback / absent
	)

	MediaBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "media_breaker_state",
			Help:      "Media resolver circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers Prometheus catalog metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(SearchFallbackTotal)
	prometheus.MustRegister(MediaResolutionsTotal)
	prometheus.MustRegister(MediaBreakerState)
	catalogMetricsRegistered = true
}
