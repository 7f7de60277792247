package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pfrederiksen/qguide/internal/logger"
	"github.com/pfrederiksen/qguide/internal/metrics"
	"github.com/pfrederiksen/qguide/internal/record"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotAnalyzable = errors.New("not analyzable")

// fakeAnalyzer turns "id_sem_prof" paths into records, skips paths starting
// with "skip" and panics on paths starting with "boom".
type fakeAnalyzer struct {
	calls atomic.Int64
}

func (f *fakeAnalyzer) Analyze(path string) (record.Record, error) {
	f.calls.Add(1)
	switch {
	case strings.HasPrefix(path, "boom"):
		panic("corrupt worker state")
	case strings.HasPrefix(path, "skip"):
		return record.Record{}, errNotAnalyzable
	}
	parts := strings.SplitN(path, "_", 3)
	return record.Record{FasID: parts[0], Semester: parts[1], Professor: parts[2]}, nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.LevelError, &bytes.Buffer{})
}

func paths(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%03d_2024Fall_P%d", i, i)
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name             string
		n                int
		workers          int
		batchesPerWorker int
		wantBatches      int
		wantFirstSize    int
	}{
		{"empty input", 0, 8, 4, 0, 0},
		{"fewer documents than workers", 3, 8, 4, 3, 1},
		{"exact multiple", 64, 8, 4, 32, 2},
		{"remainder gets its own batch", 70, 8, 4, 35, 2},
		{"single worker", 10, 1, 4, 5, 2},
		{"large input", 1000, 8, 4, 33, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := paths(tt.n)
			batches := Partition(in, tt.workers, tt.batchesPerWorker)

			require.Len(t, batches, tt.wantBatches)
			if tt.wantBatches > 0 {
				assert.Len(t, batches[0], tt.wantFirstSize)
			}

			// Batches are contiguous and cover the input exactly once.
			var flat []string
			for _, b := range batches {
				assert.NotEmpty(t, b)
				flat = append(flat, b...)
			}
			assert.Equal(t, len(in), len(flat))
			for i := range flat {
				assert.Equal(t, in[i], flat[i])
			}
		})
	}
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 1, Workers(1))
	assert.LessOrEqual(t, Workers(8), 8)
	assert.GreaterOrEqual(t, Workers(8), 1)
	assert.GreaterOrEqual(t, Workers(0), 1)
}

func TestRun_CollectsAllRecords(t *testing.T) {
	in := paths(100)
	in = append(in, "skip_2024Fall_X", "skip_2024Fall_Y")

	fa := &fakeAnalyzer{}
	var last Progress
	r := New(fa, WithLogger(quietLogger()), WithProgress(func(p Progress) { last = p }))

	res, err := r.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 102, res.Documents)
	assert.Equal(t, 100, res.Analyzed())
	assert.Equal(t, 2, res.Skipped)
	assert.Empty(t, res.FailedBatches)
	assert.Equal(t, int64(102), fa.calls.Load())
	assert.Equal(t, Progress{Done: 102, Total: 102}, last)

	ids := make([]string, 0, len(res.Records))
	for _, rec := range res.Records {
		ids = append(ids, rec.FasID)
	}
	sort.Strings(ids)
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("%03d", i), id)
	}
}

func TestRun_BatchFaultIsIsolated(t *testing.T) {
	// One document per batch, so the panic only takes its own batch down.
	in := []string{"001_2024Fall_A", "boom_2024Fall_B", "003_2024Fall_C"}

	m := metrics.New()
	var last Progress
	r := New(&fakeAnalyzer{},
		WithLogger(quietLogger()),
		WithMetrics(m),
		WithProgress(func(p Progress) { last = p }),
	)

	res, err := r.Run(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, res.FailedBatches, 1)
	fault := res.FailedBatches[0]
	assert.True(t, errors.Is(fault, ErrBatchFault))
	assert.Equal(t, 1, fault.Size)
	assert.Contains(t, fault.Error(), "corrupt worker state")

	assert.Equal(t, 2, res.Analyzed())
	assert.Equal(t, 3, last.Done, "dropped batch still advances progress")

	series, err := testutil.GatherAndCount(m.Registry(), "qguide_batches_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series, "both ok and failed outcomes recorded")
}

func TestRun_FaultDropsWholeBatch(t *testing.T) {
	in := []string{"001_2024Fall_A", "002_2024Fall_B", "boom_2024Fall_C", "004_2024Fall_D"}

	// A single batch containing every document.
	r := New(&fakeAnalyzer{}, WithLogger(quietLogger()), WithMaxWorkers(1), WithBatchesPerWorker(1))

	res, err := r.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Batches)
	assert.Len(t, res.FailedBatches, 1)
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Skipped)
}

func TestRun_Empty(t *testing.T) {
	res, err := New(&fakeAnalyzer{}, WithLogger(quietLogger())).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Documents)
	assert.Empty(t, res.Records)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fa := &fakeAnalyzer{}
	res, err := New(fa, WithLogger(quietLogger())).Run(ctx, paths(50))

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, fa.calls.Load())
}
