// Package metric exposes the Prometheus instruments used across the clipping
// pipeline.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SavesTotal counts completed save attempts.
	SavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailclip_saves_total",
			Help: "Total number of save attempts",
		},
		[]string{"target", "status"}, // target: mail, bill; status: success, partial, failed
	)

	// SaveDuration observes end-to-end save latency.
	SaveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailclip_save_duration_seconds",
			Help:    "Save duration in seconds, page creation through content append",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"target"},
	)

	// HTTPRequestDuration observes inbound API request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailclip_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// WebSocketsCurrent tracks the number of open monitor sockets.
	WebSocketsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mailclip_websockets_current",
			Help: "Number of open monitor WebSocket connections",
		},
	)

	// BlocksAppended counts content blocks submitted upstream.
	BlocksAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mailclip_blocks_appended_total",
			Help: "Total number of content blocks appended to pages",
		},
	)
)

// SaveStatus converts a save outcome into its metric label.
func SaveStatus(err error, partial bool) string {
	switch {
	case err != nil:
		return "failed"
	case partial:
		return "partial"
	default:
		return "success"
	}
}

// RecordSave records one completed save attempt.
func RecordSave(target, status string, duration time.Duration) {
	SavesTotal.WithLabelValues(target, status).Inc()
	SaveDuration.WithLabelValues(target).Observe(duration.Seconds())
}

// RecordHTTPRequest records one served API request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
