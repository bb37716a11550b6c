package evaluation

import (
	"errors"
	"time"

	httperr "github.com/aevon-lab/insight/internal/core/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

type metrics struct {
	evaluations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// newMetrics registers the evaluation collectors, reusing ones already registered.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insight",
			Subsystem: "report",
			Name:      "evaluations_total",
			Help:      "Count of report evaluations by result type and outcome",
		}, []string{"result_type", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "insight",
			Subsystem: "report",
			Name:      "evaluation_duration_seconds",
			Help:      "Latency distribution of report evaluations",
			Buckets:   durationBuckets,
		}, []string{"result_type"}),
	}

	if err := reg.Register(m.evaluations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				m.evaluations = existing
			}
		}
	}
	if err := reg.Register(m.latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				m.latency = existing
			}
		}
	}
	return m
}

func (m *metrics) observe(resultType ResultType, err error, elapsed time.Duration) {
	if resultType == "" {
		resultType = "UNKNOWN"
	}
	m.evaluations.WithLabelValues(string(resultType), outcome(err)).Inc()
	m.latency.WithLabelValues(string(resultType)).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, httperr.ErrValidation):
		return "invalid"
	case errors.Is(err, httperr.ErrNotFound):
		return "not_found"
	default:
		return "failed"
	}
}
