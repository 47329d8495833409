// Package metrics exposes allocation search results as Prometheus metrics.
// A Recorder owns its registry so batch runs can dump a textfile snapshot
// without a scrape endpoint.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/fracalloc/alloc"
)

const namespace = "fracalloc"

// Recorder accumulates search metrics.
type Recorder struct {
	registry *prometheus.Registry

	searches   prometheus.Counter
	evaluated  prometheus.Counter
	excluded   prometheus.Counter
	failures   *prometheus.CounterVec
	revenue    prometheus.Gauge
	allocation *prometheus.GaugeVec
	duration   prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Completed allocation searches.",
		}),
		evaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_evaluated_total",
			Help:      "Allocation vectors evaluated across all searches.",
		}),
		excluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_excluded_total",
			Help:      "Allocation vectors dropped because a price model was undefined.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_failures_total",
			Help:      "Searches that returned an error, by error kind.",
		}, []string{"kind"}),
		revenue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_revenue",
			Help:      "Total revenue of the most recent winning allocation.",
		}),
		allocation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_allocation_quantity",
			Help:      "Quantity assigned to each use by the most recent winning allocation.",
		}, []string{"use"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of allocation searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	r.registry.MustRegister(r.searches, r.evaluated, r.excluded, r.failures, r.revenue, r.allocation, r.duration)
	return r
}

// ObserveResult records a successful search over uses.
func (r *Recorder) ObserveResult(uses []alloc.Use, res *alloc.Result, elapsed time.Duration) {
	r.searches.Inc()
	r.evaluated.Add(float64(res.Evaluated))
	r.excluded.Add(float64(res.Excluded))
	r.revenue.Set(res.Revenue)
	r.allocation.Reset()
	for i, u := range uses {
		r.allocation.WithLabelValues(u.Name).Set(res.Allocation[i])
	}
	r.duration.Observe(elapsed.Seconds())
}

// ObserveError records a failed search, labelled by the alloc error kind.
func (r *Recorder) ObserveError(err error) {
	r.failures.WithLabelValues(Kind(err)).Inc()
}

// Kind maps an error to a short metric label.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, alloc.ErrConfiguration):
		return "configuration"
	case errors.Is(err, alloc.ErrNonTermination):
		return "non_termination"
	case errors.Is(err, alloc.ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, alloc.ErrNumericDomain):
		return "numeric_domain"
	default:
		return "other"
	}
}

// Registry returns the registry the recorder's collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// suitable for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
