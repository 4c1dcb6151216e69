package metric

import (
	"strconv"
	"time"

	"github.com/hupe1980/easystore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "easystore"

var _ easystore.MetricsCollector = (*Prometheus)(nil)

// Prometheus holds all Prometheus metrics of a dispatcher and its HTTP server.
type Prometheus struct {
	// Disk operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	UnsupportedTotal  *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Prometheus{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of disk operations by outcome",
			},
			[]string{"disk", "operation", "status"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Disk operation duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"disk", "operation"},
		),
		UnsupportedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unsupported_operations_total",
				Help:      "Operations rejected because the disk lacks the capability",
			},
			[]string{"disk", "operation"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordOperation implements easystore.MetricsCollector.
func (p *Prometheus) RecordOperation(disk, op string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.OperationsTotal.WithLabelValues(disk, op, status).Inc()
	p.OperationDuration.WithLabelValues(disk, op).Observe(duration.Seconds())
}

// RecordUnsupported implements easystore.MetricsCollector.
func (p *Prometheus) RecordUnsupported(disk, op string) {
	p.UnsupportedTotal.WithLabelValues(disk, op).Inc()
}

// RecordRequest records an HTTP request. path should be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func (p *Prometheus) RecordRequest(method, path string, status int, duration time.Duration) {
	p.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	p.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
