package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instrperf/InstrumentBench/common"
	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/instrdata"
)

type fakeLoadEngine struct {
	exists    bool
	existsErr error
	result    *esindex.BulkResult
	count     int64
	countErr  error

	indexed   []instrdata.Instrument
	batchSize int
}

func (f *fakeLoadEngine) IndexExists(ctx context.Context) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeLoadEngine) BulkIndexInstruments(ctx context.Context, instruments []instrdata.Instrument, batchSize int) (*esindex.BulkResult, error) {
	f.indexed = instruments
	f.batchSize = batchSize
	if f.result != nil {
		return f.result, nil
	}
	return &esindex.BulkResult{Succeeded: len(instruments)}, nil
}

func (f *fakeLoadEngine) CountDocuments(ctx context.Context) (int64, error) {
	return f.count, f.countErr
}

func writeSourceCSV(t *testing.T, instruments []instrdata.Instrument) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instruments.csv")
	require.NoError(t, instrdata.WriteInstrumentsCSV(instruments, path))
	return path
}

func TestLoaderUpsertsSourceFile(t *testing.T) {
	instruments := instrdata.GenerateInstruments(10)
	engine := &fakeLoadEngine{exists: true, count: 10}

	config := common.LoaderConfig{
		InputFile: writeSourceCSV(t, instruments),
		BatchSize: 4,
	}

	report, err := Run(context.Background(), engine, config)
	require.NoError(t, err)

	assert.Equal(t, 10, report.TotalRecords)
	assert.Equal(t, 10, report.Succeeded)
	assert.Zero(t, report.Failed)
	assert.Equal(t, int64(10), report.IndexDocs)
	assert.Equal(t, 4, engine.batchSize)

	require.Len(t, engine.indexed, 10)
	for i, inst := range engine.indexed {
		assert.Equal(t, instruments[i].ISIN, inst.ISIN)
	}
}

func TestLoaderReportsBulkErrors(t *testing.T) {
	instruments := instrdata.GenerateInstruments(5)
	engine := &fakeLoadEngine{
		exists: true,
		result: &esindex.BulkResult{
			Succeeded: 4,
			Failed:    1,
			Errors: []esindex.BulkError{
				{ISIN: instruments[0].ISIN, Status: 429, Reason: "rejected"},
			},
		},
	}

	config := common.LoaderConfig{
		InputFile: writeSourceCSV(t, instruments),
		BatchSize: 1000,
	}

	report, err := Run(context.Background(), engine, config)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}

func TestLoaderSurvivesCountFailure(t *testing.T) {
	// Verification is advisory: a failed count must not fail the load
	engine := &fakeLoadEngine{exists: true, countErr: errors.New("count timed out")}

	config := common.LoaderConfig{
		InputFile: writeSourceCSV(t, instrdata.GenerateInstruments(3)),
		BatchSize: 1000,
	}

	report, err := Run(context.Background(), engine, config)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Succeeded)
	assert.Zero(t, report.IndexDocs)
}

func TestLoaderFailsWithoutIndex(t *testing.T) {
	engine := &fakeLoadEngine{exists: false}

	config := common.LoaderConfig{
		InputFile: writeSourceCSV(t, instrdata.GenerateInstruments(1)),
		BatchSize: 1000,
	}

	_, err := Run(context.Background(), engine, config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create-index")
	assert.Empty(t, engine.indexed)
}

func TestLoaderFailsOnMissingFile(t *testing.T) {
	engine := &fakeLoadEngine{exists: true}

	config := common.LoaderConfig{
		InputFile: filepath.Join(t.TempDir(), "missing.csv"),
		BatchSize: 1000,
	}

	_, err := Run(context.Background(), engine, config)
	require.Error(t, err)
}
