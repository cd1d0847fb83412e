// Package metrics records Prometheus metrics for talk, comment and vote operations.
package metrics

import (
	"time"

	"github.com/nasermirzaei89/talkboard/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talkboard_operations_total",
				Help: "Total number of talkboard operations by outcome",
			},
			[]string{"entity", "operation", "outcome"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "talkboard_operation_duration_seconds",
				Help:    "Talkboard operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"entity", "operation"},
		),
	}
}

// Observe records one finished operation that started at start.
func (m *Metrics) Observe(entity, operation string, start time.Time, err error) {
	m.operationsTotal.WithLabelValues(entity, operation, Outcome(err)).Inc()
	m.operationDuration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case validation.IsError(err):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
