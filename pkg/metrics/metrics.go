package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Fleet tracking metrics
	GPSFixesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gps_fixes_ingested_total",
			Help: "Total number of GPS fixes written",
		},
		[]string{"service", "event_type"},
	)

	PlaybackPointsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playback_points_returned",
			Help:    "Number of track points returned per playback request",
			Buckets: []float64{10, 100, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"service", "downsampled"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	LocationUpdatesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_updates_published_total",
			Help: "Total number of live location updates published to the fanout exchange",
		},
		[]string{"service", "status"},
	)
)

// RecordHTTPMetrics records counter and duration for a finished HTTP request.
func RecordHTTPMetrics(service, method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(service, method, path, statusStr).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, statusStr).Observe(duration.Seconds())
}
