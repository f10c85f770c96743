package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics captures low-cardinality HTTP server metrics.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_server_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status_code"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_server_in_flight",
		Help: "HTTP requests currently being served.",
	})
	reg.MustRegister(duration, inFlight)
	return &HTTPMetrics{duration: duration, inFlight: inFlight}
}

// Start marks a request as in flight.
func (m *HTTPMetrics) Start() {
	if m == nil || m.inFlight == nil {
		return
	}
	m.inFlight.Inc()
}

// Observe records a finished request.
func (m *HTTPMetrics) Observe(endpoint, method string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.inFlight.Dec()
	m.duration.WithLabelValues(normalizeEndpoint(endpoint), method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "unmatched"
	}
	return endpoint
}
