// Package metrics records Prometheus metrics for a single analysis run.
//
// A Recorder owns a private registry so that runs and tests never collide on
// the global default registry. The registry can be dumped in the text
// exposition format for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qguide"

// Outcome label values.
const (
	OutcomeAnalyzed = "analyzed"
	OutcomeSkipped  = "skipped"
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
)

// Recorder collects run metrics. All methods are safe on a nil Recorder, which
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	documents     *prometheus.CounterVec
	batches       *prometheus.CounterVec
	batchDuration prometheus.Histogram
	courses       prometheus.Gauge
	workers       prometheus.Gauge
}

// New creates a Recorder with all run metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Report pages processed, by outcome.",
		}, []string{"outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Document batches executed, by outcome.",
		}, []string{"outcome"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time spent analyzing one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		courses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "courses",
			Help:      "Courses in the last written snapshot.",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Parallel workers used by the run.",
		}),
	}

	r.registry.MustRegister(r.documents, r.batches, r.batchDuration, r.courses, r.workers)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Documents adds n documents with the given outcome.
func (r *Recorder) Documents(outcome string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.documents.WithLabelValues(outcome).Add(float64(n))
}

// Batch records one finished batch.
func (r *Recorder) Batch(failed bool, took time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if failed {
		outcome = OutcomeFailed
	}
	r.batches.WithLabelValues(outcome).Inc()
	r.batchDuration.Observe(took.Seconds())
}

// SetCourses records the number of aggregated courses.
func (r *Recorder) SetCourses(n int) {
	if r == nil {
		return
	}
	r.courses.Set(float64(n))
}

// SetWorkers records the worker pool size.
func (r *Recorder) SetWorkers(n int) {
	if r == nil {
		return
	}
	r.workers.Set(float64(n))
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
