package metrics

import "github.com/prometheus/client_golang/prometheus"

// Record store call outcomes.
const (
	StoreOK       = "ok"
	StoreMismatch = "cursor_mismatch"
	StoreError    = "error"
)

// Record store Prometheus metrics.
var (
	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_requests_total",
			Help:      "Total number of record store calls",
		},
		[]string{"driver", "operation", "status"},
	)

	StoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_request_duration_seconds",
			Help:      "Record store call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"driver", "operation"},
	)

	StoreItemsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_items_returned",
			Help:      "Items returned per record store read",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"driver", "operation"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers Prometheus record store metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreRequestsTotal)
	prometheus.MustRegister(StoreRequestDuration)
	prometheus.MustRegister(StoreItemsReturned)
	storeMetricsRegistered = true
}
