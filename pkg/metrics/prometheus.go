package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	ArrivalsMarked   prometheus.Counter
	DeparturesMarked prometheus.Counter
	Corrections      prometheus.Counter
	Deletions        prometheus.Counter
	DigestsSent      prometheus.Counter
	ErrorsCount      *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ArrivalsMarked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arrivals_marked_total",
			Help:      "The total number of arrival marks",
		}),
		DeparturesMarked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "departures_marked_total",
			Help:      "The total number of departure marks",
		}),
		Corrections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_corrections_total",
			Help:      "The total number of direct record edits",
		}),
		Deletions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_deletions_total",
			Help:      "The total number of deleted attendance records",
		}),
		DigestsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_sent_total",
			Help:      "The total number of daily digests sent",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveError counts a failed operation
func (m *Metrics) ObserveError(operation string) {
	if m == nil {
		return
	}
	m.ErrorsCount.WithLabelValues(operation).Inc()
}
