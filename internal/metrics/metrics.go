// Package metrics keeps client-side Prometheus counters for API traffic,
// listing cache behaviour and transfers.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector of this package
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	apiRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsb_api_requests_total",
			Help: "Total number of API requests by method, endpoint and status code",
		},
		[]string{"method", "endpoint", "code"},
	)

	apiRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fsb_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	cacheEventsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsb_listing_cache_events_total",
			Help: "Listing cache hits, misses and invalidations",
		},
		[]string{"event"},
	)

	transferBytesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsb_transfer_bytes_total",
			Help: "Bytes uploaded or downloaded",
		},
		[]string{"direction"},
	)
)

// Cache events
const (
	CacheHit        = "hit"
	CacheMiss       = "miss"
	CacheInvalidate = "invalidate"
)

// Transfer directions
const (
	Upload   = "upload"
	Download = "download"
)

// RecordRequest counts a finished request. code 0 means a transport failure.
func RecordRequest(method, endpoint string, code int, seconds float64) {
	apiRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordCacheEvent counts a listing cache event
func RecordCacheEvent(event string) {
	cacheEventsTotal.WithLabelValues(event).Inc()
}

// RecordTransfer adds n bytes to the given direction
func RecordTransfer(direction string, n int64) {
	if n <= 0 {
		return
	}
	transferBytesTotal.WithLabelValues(direction).Add(float64(n))
}

// WriteTextfile dumps the registry in the node_exporter textfile format
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
