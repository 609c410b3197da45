package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relayd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "relayd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	relayConnections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relayd",
			Subsystem: "relay",
			Name:      "connections_total",
			Help:      "Accepted relay connections.",
		},
		[]string{"node"},
	)
	relayFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relayd",
			Subsystem: "relay",
			Name:      "frames_total",
			Help:      "Response frames written, by kind.",
		},
		[]string{"node", "kind"},
	)
	relayFrameBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "relayd",
			Subsystem: "relay",
			Name:      "frame_body_bytes_total",
			Help:      "Response frame body bytes written, by kind.",
		},
		[]string{"node", "kind"},
	)
	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "relayd",
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Upstream fetch duration in seconds, by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			relayConnections,
			relayFrames,
			relayFrameBytes,
			fetchDuration,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordConnection(node string) {
	RegisterMetrics()
	relayConnections.WithLabelValues(node).Inc()
}

func RecordFrame(node, kind string, bodyBytes int) {
	RegisterMetrics()
	relayFrames.WithLabelValues(node, kind).Inc()
	relayFrameBytes.WithLabelValues(node, kind).Add(float64(bodyBytes))
}

func RecordFetch(node, outcome string, duration time.Duration) {
	RegisterMetrics()
	fetchDuration.WithLabelValues(node, outcome).Observe(duration.Seconds())
}
