package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure stages counted by nebula_conn_errors_total.
const (
	stageAccept = "accept"
	stageRead   = "read"
	stageWrite  = "write"
)

// MetricsConfig holds configuration for the connection metrics.
type MetricsConfig struct {
	// Namespace is the prefix for all metrics (default: "nebula")
	Namespace string
	// Subsystem is an optional subsystem name
	Subsystem string
	// Buckets defines the histogram buckets for connection duration
	Buckets []float64
}

// DefaultMetricsConfig returns the default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "nebula",
		Subsystem: "conn",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}
}

// Metrics holds the Prometheus collectors for served connections.
type Metrics struct {
	requestsTotal       *prometheus.CounterVec
	connDuration        prometheus.Histogram
	connectionsInFlight prometheus.Gauge
	responseSize        prometheus.Histogram
	errorsTotal         *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg keeps them
// unregistered, which is what tests usually want.
func NewMetrics(cfg MetricsConfig, reg prometheus.Registerer) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "nebula"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "conn"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = DefaultMetricsConfig().Buckets
	}
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of requests answered, by method and status.",
			},
			[]string{"method", "status"},
		),
		connDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "duration_seconds",
				Help:      "Time from accept to close of a connection.",
				Buckets:   cfg.Buckets,
			},
		),
		connectionsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "in_flight",
				Help:      "Current number of connections being handled.",
			},
		),
		responseSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "response_size_bytes",
				Help:      "Bytes written per response, headers included.",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 8), // 100B to 1GB
			},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "I/O failures by stage.",
			},
			[]string{"stage"},
		),
	}
}

func (m *Metrics) connOpened() {
	if m == nil {
		return
	}
	m.connectionsInFlight.Inc()
}

func (m *Metrics) connClosed(start time.Time) {
	if m == nil {
		return
	}
	m.connectionsInFlight.Dec()
	m.connDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) responded(method string, code int, size int64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(normalizeMethod(method), strconv.Itoa(code)).Inc()
	m.responseSize.Observe(float64(size))
}

func (m *Metrics) failed(stage string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(stage).Inc()
}

// normalizeMethod folds arbitrary method tokens into one label value to
// keep cardinality bounded; the parser accepts any token as a method.
func normalizeMethod(method string) string {
	switch method {
	case "GET", "HEAD", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "CONNECT", "TRACE":
		return method
	default:
		return "OTHER"
	}
}
