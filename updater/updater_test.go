package updater

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instrperf/InstrumentBench/common"
	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/perflog"
)

// fakeUpdateEngine cancels the run context after the first bulk call so
// the loop finishes after exactly one iteration.
type fakeUpdateEngine struct {
	isins    []string
	isinsErr error
	failed   int
	delay    time.Duration
	cancel   context.CancelFunc

	bulkCalls   int
	lastUpdates []esindex.PriceUpdate
	hadDeadline bool
}

func (f *fakeUpdateEngine) FetchAllISINs(ctx context.Context) ([]string, error) {
	return f.isins, f.isinsErr
}

func (f *fakeUpdateEngine) BulkUpdatePrices(ctx context.Context, updates []esindex.PriceUpdate, batchSize int) (*esindex.BulkResult, error) {
	f.bulkCalls++
	f.lastUpdates = updates
	_, f.hadDeadline = ctx.Deadline()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.cancel != nil {
		f.cancel()
	}
	return &esindex.BulkResult{
		Succeeded: len(updates) - f.failed,
		Failed:    f.failed,
	}, nil
}

func testUpdaterConfig(t *testing.T) common.UpdaterConfig {
	t.Helper()
	return common.UpdaterConfig{
		BatchSize:         25,
		PauseSeconds:      0,
		RetryDelaySeconds: 0,
		MetricsFile:       filepath.Join(t.TempDir(), "update_metrics.csv"),
		TimeoutMs:         1000,
	}
}

func makeISINs(n int) []string {
	isins := make([]string, 0, n)
	for i := 0; i < n; i++ {
		isins = append(isins, fmt.Sprintf("US%09d%d", i, i%10))
	}
	return isins
}

func TestUpdaterWritesIterationRow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &fakeUpdateEngine{
		isins:  makeISINs(50),
		failed: 3,
		delay:  20 * time.Millisecond,
		cancel: cancel,
	}

	config := testUpdaterConfig(t)
	stats := common.NewStats()

	u := NewUpdater(engine, config, stats, false)
	require.NoError(t, u.Run(ctx))

	assert.Equal(t, 1, engine.bulkCalls)
	assert.Equal(t, int64(1), stats.UpdateIterations)
	assert.Equal(t, int64(47), stats.UpdatedDocs)
	assert.Equal(t, int64(3), stats.UpdateErrors)

	records, err := perflog.LoadUpdateRecords(config.MetricsFile)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 1, rec.Iteration)
	assert.Equal(t, 50, rec.TotalInstruments)
	assert.Equal(t, 47, rec.SuccessCount)
	assert.Equal(t, 3, rec.ErrorCount)
	assert.Equal(t, 50, rec.SuccessCount+rec.ErrorCount)
	assert.Greater(t, rec.DurationSeconds, 0.0)
	assert.Greater(t, rec.UpdatesPerSecond, 0.0)
}

func TestUpdaterAssignsBucketedPrices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &fakeUpdateEngine{
		isins:  makeISINs(20),
		cancel: cancel,
	}

	config := testUpdaterConfig(t)

	u := NewUpdater(engine, config, common.NewStats(), false)
	require.NoError(t, u.Run(ctx))

	// Bulk requests run under the configured per-request timeout
	assert.True(t, engine.hadDeadline)

	require.Len(t, engine.lastUpdates, 20)
	for _, upd := range engine.lastUpdates {
		assert.Equal(t, 1, upd.Iteration)
		assert.GreaterOrEqual(t, upd.Price, 1.0)
		assert.LessOrEqual(t, upd.Price, 5000.0)
	}
}

func TestUpdaterFailsOnEmptyIndex(t *testing.T) {
	engine := &fakeUpdateEngine{isins: nil}

	u := NewUpdater(engine, testUpdaterConfig(t), common.NewStats(), false)
	err := u.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no instruments")
	assert.Zero(t, engine.bulkCalls)
}

func TestUpdaterFailsWhenSnapshotErrors(t *testing.T) {
	engine := &fakeUpdateEngine{isinsErr: errors.New("scroll failed")}

	u := NewUpdater(engine, testUpdaterConfig(t), common.NewStats(), false)
	err := u.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scroll failed")
}
