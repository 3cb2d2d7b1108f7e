// Package metrics provides Prometheus instrumentation for hybrid signature
// operations. A nil *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all metrics.
	Namespace = "supersphincs"

	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	StatusSuccess = "success"
	StatusError   = "error"

	OpHash    = "hash"
	OpKeyPair = "keypair"
	OpSign    = "sign"
	OpVerify  = "verify"
	OpOpen    = "open"
	OpExport  = "export"
	OpImport  = "import"
)

// Collector holds the metric vectors registered for one scheme.
type Collector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	errors     *prometheus.CounterVec
}

// New registers the collector's metrics on reg. A nil reg returns a nil
// Collector.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)

	return &Collector{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "operations_total",
				Help:      "Total number of hybrid signature operations by type and status",
			},
			[]string{LabelOperation, LabelStatus},
		),
		// Key generation and SLH-DSA signing sit well above typical crypto latencies.
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of hybrid signature operations in seconds",
				Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{LabelOperation},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "errors_total",
				Help:      "Total number of failed operations by type and error class",
			},
			[]string{LabelOperation, LabelErrorType},
		),
	}
}

// Observe records one finished operation. errorType is ignored when err is nil.
func (c *Collector) Observe(operation string, start time.Time, err error, errorType string) {
	if c == nil {
		return
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
		c.errors.WithLabelValues(operation, errorType).Inc()
	}
	c.operations.WithLabelValues(operation, status).Inc()
	c.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
