// Package metrics exports prometheus counters for processed narrative events
// and batches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"lorekeeper/internal/engine"
)

// EventsTotal counts event outcomes by kind and status.
// Use RegisterMetrics to register this with a Prometheus registry.
var EventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lorekeeper_events_total",
		Help: "Total number of narrative events processed, by kind and outcome status",
	},
	[]string{"kind", "status"},
)

// BatchesTotal counts processed batches.
var BatchesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "lorekeeper_batches_total",
		Help: "Total number of event batches processed",
	},
)

// BatchSize records how many events each batch carried.
var BatchSize = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "lorekeeper_batch_events",
		Help:    "Number of events per processed batch",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	},
)

// RegisterMetrics registers the package metrics with reg. Panics if
// registration fails.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(EventsTotal)
	reg.MustRegister(BatchesTotal)
	reg.MustRegister(BatchSize)
}

// Observer feeds processor outcomes into the package metrics.
type Observer struct{}

var _ engine.Observer = Observer{}

func (Observer) ObserveOutcome(_ string, o engine.Outcome) {
	EventsTotal.WithLabelValues(string(o.Kind), string(o.Status)).Inc()
}

func (Observer) ObserveBatch(_ string, c engine.Counts) {
	BatchesTotal.Inc()
	BatchSize.Observe(float64(c.Applied + c.Rejected + c.Deferred))
}
