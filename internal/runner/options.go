package runner

import (
	"github.com/pfrederiksen/qguide/internal/logger"
	"github.com/pfrederiksen/qguide/internal/metrics"
)

// Option configures a Runner.
type Option func(*Runner)

// WithMaxWorkers caps the worker pool size.
func WithMaxWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxWorkers = n
		}
	}
}

// WithBatchesPerWorker sets how many batches are created per worker.
func WithBatchesPerWorker(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.batchesPerWorker = n
		}
	}
}

// WithProgress registers a callback invoked by the coordinator after every
// batch.
func WithProgress(fn func(Progress)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithMetrics records run metrics on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger sets the logger used for batch faults and skipped documents.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}
