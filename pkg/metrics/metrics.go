// Package metrics holds the Prometheus collectors for container parsing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	framesTotal      prometheus.Counter
	framesDropped    *prometheus.CounterVec
	frameFailures    prometheus.Counter
	entriesTotal     *prometheus.CounterVec
	descriptorsTotal prometheus.Counter
	parsesTotal      *prometheus.CounterVec
	parseDuration    prometheus.Histogram
	inputBytes       prometheus.Histogram

	// HTTP surface
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec
	authRequestsTotal    *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		framesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "logan_frames_total",
			Help: "Total number of frames extracted from containers",
		}),
		framesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logan_frames_dropped_total",
			Help: "Frame headers discarded while scanning",
		}, []string{"reason"}),
		frameFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "logan_frame_decode_failures_total",
			Help: "Frames that failed to decrypt or inflate",
		}),
		entriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logan_entries_total",
			Help: "Log entries written to report bodies",
		}, []string{"kind"}),
		descriptorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "logan_error_descriptors_total",
			Help: "Distinct error descriptors found per report, summed",
		}),
		parsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logan_parses_total",
			Help: "Container parses by outcome",
		}, []string{"status"}),
		parseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "logan_parse_duration_seconds",
			Help:    "Wall-clock time to parse one container",
			Buckets: prometheus.DefBuckets,
		}),
		inputBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "logan_input_bytes",
			Help:    "Size of parsed containers in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logan_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		httpRequestsInFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "logan_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}, []string{"method", "endpoint"}),
		authRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logan_auth_requests_total",
			Help: "API key checks by outcome",
		}, []string{"status"}),
	}
}

// Registry exposes the registry for HTTP handlers and textfile export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFrame counts one extracted frame and whether it decoded.
func (m *Metrics) RecordFrame(decoded bool) {
	if m == nil {
		return
	}
	m.framesTotal.Inc()
	if !decoded {
		m.frameFailures.Inc()
	}
}

// RecordDrop counts a discarded frame header.
func (m *Metrics) RecordDrop(reason string) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(reason).Inc()
}

// RecordEntry counts one body line.
func (m *Metrics) RecordEntry(placeholder bool) {
	if m == nil {
		return
	}
	kind := "record"
	if placeholder {
		kind = "placeholder"
	}
	m.entriesTotal.WithLabelValues(kind).Inc()
}

// RecordParse records the outcome of one parse.
func (m *Metrics) RecordParse(ok bool, size int64, descriptors int, duration time.Duration) {
	if m == nil {
		return
	}
	status := statusSuccess
	if !ok {
		status = statusError
	}
	m.parsesTotal.WithLabelValues(status).Inc()
	m.parseDuration.Observe(duration.Seconds())
	m.inputBytes.Observe(float64(size))
	m.descriptorsTotal.Add(float64(descriptors))
}

// WriteTextfile writes the current values in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
