// Package runner fans report pages out to a fixed pool of workers and
// collects the records they produce.
//
// The input is split into contiguous batches, about four per worker. Each
// worker analyzes its batch sequentially and hands back an immutable batch
// result; a single coordinator goroutine folds the results in completion
// order. A batch that panics is dropped as a whole and the run continues.
package runner
