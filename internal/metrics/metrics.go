// Package metrics records provider invocations as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder implements completion.Observer on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	items       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates a recorder with its metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termsuggest_provider_invocations_total",
				Help: "Provider invocations by namespace, provider and outcome",
			},
			[]string{"namespace", "provider", "outcome"},
		),
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termsuggest_provider_items_total",
				Help: "Completion items contributed by each provider",
			},
			[]string{"namespace", "provider"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termsuggest_provider_duration_seconds",
				Help:    "Provider invocation latency",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 3},
			},
			[]string{"namespace", "provider"},
		),
	}
	r.registry.MustRegister(r.invocations, r.items, r.duration)
	return r
}

// ObserveProvider records one provider invocation.
func (r *Recorder) ObserveProvider(namespace, id string, items int, elapsed time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.invocations.WithLabelValues(namespace, id, outcome).Inc()
	r.items.WithLabelValues(namespace, id).Add(float64(items))
	r.duration.WithLabelValues(namespace, id).Observe(elapsed.Seconds())
}

// Gatherer exposes the recorder's registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteFile writes the metrics in the Prometheus text format.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
