package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/pfrederiksen/qguide/internal/logger"
	"github.com/pfrederiksen/qguide/internal/metrics"
	"github.com/pfrederiksen/qguide/internal/record"
	"golang.org/x/sync/errgroup"
)

// Default pool configuration.
const (
	DefaultMaxWorkers       = 8
	DefaultBatchesPerWorker = 4
)

// ErrBatchFault marks a batch whose execution failed as a whole.
var ErrBatchFault = errors.New("batch execution failed")

// Analyzer produces a record for one report page. A non-nil error means the
// page is not analyzable and is skipped.
type Analyzer interface {
	Analyze(path string) (record.Record, error)
}

// BatchError describes a dropped batch
type BatchError struct {
	Index int
	Size  int
	Cause interface{}
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (%d documents): %v", e.Index, e.Size, e.Cause)
}

// Unwrap lets callers match ErrBatchFault with errors.Is.
func (e *BatchError) Unwrap() error {
	return ErrBatchFault
}

// Progress is reported after every finished batch.
type Progress struct {
	Done  int // documents accounted for so far, including dropped batches
	Total int
}

// Result is the outcome of a run
type Result struct {
	Records       []record.Record
	Documents     int
	Skipped       int
	FailedBatches []*BatchError
	Workers       int
	Batches       int
}

// Analyzed returns the number of documents that produced a record.
func (r *Result) Analyzed() int {
	return len(r.Records)
}

// batchResult is what a worker hands back to the coordinator.
type batchResult struct {
	index   int
	size    int
	records []record.Record
	skipped int
	fault   *BatchError
	took    time.Duration
}

// Runner executes analysis runs
type Runner struct {
	analyzer         Analyzer
	maxWorkers       int
	batchesPerWorker int
	progress         func(Progress)
	metrics          *metrics.Recorder
	log              *logger.Logger
}

// New creates a Runner for analyzer with the given options.
func New(analyzer Analyzer, opts ...Option) *Runner {
	r := &Runner{
		analyzer:         analyzer,
		maxWorkers:       DefaultMaxWorkers,
		batchesPerWorker: DefaultBatchesPerWorker,
		log:              logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Workers returns the pool size: the number of CPUs, capped at maxWorkers.
func Workers(maxWorkers int) int {
	n := runtime.NumCPU()
	if maxWorkers > 0 && n > maxWorkers {
		n = maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Partition splits paths into contiguous batches so that there are roughly
// workers*batchesPerWorker of them. Batches hold at least one path.
func Partition(paths []string, workers, batchesPerWorker int) [][]string {
	if len(paths) == 0 {
		return nil
	}
	size := len(paths) / (workers * batchesPerWorker)
	if size < 1 {
		size = 1
	}

	batches := make([][]string, 0, (len(paths)+size-1)/size)
	for start := 0; start < len(paths); start += size {
		end := start + size
		if end > len(paths) {
			end = len(paths)
		}
		batches = append(batches, paths[start:end:end])
	}
	return batches
}

// Run analyzes every path and returns the records of all analyzable pages.
// Record order is unspecified. Run only fails when ctx is cancelled, in which
// case no partial result is returned.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	workers := Workers(r.maxWorkers)
	batches := Partition(paths, workers, r.batchesPerWorker)
	r.metrics.SetWorkers(workers)

	result := &Result{
		Documents: len(paths),
		Workers:   workers,
		Batches:   len(batches),
	}

	results := make(chan batchResult, len(batches))
	var g errgroup.Group
	g.SetLimit(workers)

	go func() {
		for i, batch := range batches {
			g.Go(func() error {
				results <- r.runBatch(ctx, i, batch)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	done := 0
	for br := range results {
		done += br.size
		r.metrics.Batch(br.fault != nil, br.took)

		if br.fault != nil {
			result.FailedBatches = append(result.FailedBatches, br.fault)
			r.log.Error("Batch dropped", logger.Fields{
				"batch":     br.index,
				"documents": br.size,
			}, br.fault)
		} else {
			result.Records = append(result.Records, br.records...)
			result.Skipped += br.skipped
			r.metrics.Documents(metrics.OutcomeAnalyzed, len(br.records))
			r.metrics.Documents(metrics.OutcomeSkipped, br.skipped)
		}

		if r.progress != nil {
			r.progress(Progress{Done: done, Total: len(paths)})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// runBatch analyzes batch sequentially. A panic anywhere in the batch turns
// the whole batch into a fault.
func (r *Runner) runBatch(ctx context.Context, index int, batch []string) (res batchResult) {
	start := time.Now()
	res = batchResult{index: index, size: len(batch)}

	defer func() {
		res.took = time.Since(start)
		if p := recover(); p != nil {
			res.records = nil
			res.skipped = 0
			res.fault = &BatchError{Index: index, Size: len(batch), Cause: p}
		}
	}()

	for _, path := range batch {
		if ctx.Err() != nil {
			return res
		}
		rec, err := r.analyzer.Analyze(path)
		if err != nil {
			res.skipped++
			r.log.Debug("Document skipped", logger.Fields{"path": path, "reason": err.Error()})
			continue
		}
		res.records = append(res.records, rec)
	}
	return res
}
