// Package metrics provides Prometheus instrumentation for the filter pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "productfilter"

// Recorder holds the Prometheus collectors for the pipeline. A nil *Recorder
// is valid and records nothing.
type Recorder struct {
	fetchTotal         *prometheus.CounterVec
	fetchDuration      prometheus.Histogram
	credentialMismatch prometheus.Counter
	resultProducts     prometheus.Histogram
}

// New creates a Recorder and registers its collectors with reg.
// If reg is nil, it returns nil (no-op metrics).
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		return nil, nil
	}

	r := &Recorder{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_total",
			Help:      "Number of upstream catalog fetches by outcome",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream catalog fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		credentialMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "credential_mismatch_total",
			Help:      "Number of fetches whose upstream credentials failed validation",
		}),
		resultProducts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "result_products",
			Help:      "Number of products left after filtering",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	for _, c := range []prometheus.Collector{r.fetchTotal, r.fetchDuration, r.credentialMismatch, r.resultProducts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ObserveFetch records the outcome and duration of an upstream fetch
func (r *Recorder) ObserveFetch(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.fetchTotal.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(duration.Seconds())
}

// IncCredentialMismatch counts a fetch whose credentials failed validation
func (r *Recorder) IncCredentialMismatch() {
	if r == nil {
		return
	}
	r.credentialMismatch.Inc()
}

// ObserveResultSize records how many products survived filtering
func (r *Recorder) ObserveResultSize(count int) {
	if r == nil {
		return
	}
	r.resultProducts.Observe(float64(count))
}
