package searcher

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instrperf/InstrumentBench/common"
	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/perflog"
)

// fakeSearchEngine cancels the run context after the first query so the
// loop finishes after exactly one iteration.
type fakeSearchEngine struct {
	priceStats esindex.PriceStats
	statsErr   error
	result     *esindex.SearchResult
	searchErr  error
	cancel     context.CancelFunc

	searchCalls int
	lastQuery   esindex.InstrumentQuery
}

func (f *fakeSearchEngine) FetchPriceStats(ctx context.Context) (esindex.PriceStats, error) {
	return f.priceStats, f.statsErr
}

func (f *fakeSearchEngine) SearchInstruments(ctx context.Context, query esindex.InstrumentQuery) (*esindex.SearchResult, error) {
	f.searchCalls++
	f.lastQuery = query
	if f.cancel != nil {
		f.cancel()
	}
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.result, nil
}

func testSearcherConfig(t *testing.T) common.SearcherConfig {
	t.Helper()
	return common.SearcherConfig{
		PauseSeconds:      0,
		RetryDelaySeconds: 0,
		MetricsFile:       filepath.Join(t.TempDir(), "search_metrics.csv"),
		SampleSize:        2,
		TimeoutMs:         1000,
	}
}

func TestSearcherAppendsSuccessRow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &fakeSearchEngine{
		priceStats: esindex.PriceStats{Min: 1.0, Avg: 250.0, Max: 5000.0},
		result: &esindex.SearchResult{
			TotalHits:    42,
			ReturnedHits: 3,
			Hits: []esindex.InstrumentHit{
				{ISIN: "US0000000011", Price: 12.50},
				{ISIN: "DE0000000025", Price: 99.90},
				{ISIN: "GB0000000032", Price: 150.00},
			},
		},
		cancel: cancel,
	}

	config := testSearcherConfig(t)
	stats := common.NewStats()

	s := NewSearcher(engine, config, stats, false)
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, 1, engine.searchCalls)
	assert.Equal(t, int64(1), stats.TotalSearches)
	assert.Equal(t, int64(1), stats.SuccessfulSearches)

	records, err := perflog.LoadSearchRecords(config.MetricsFile)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 1, rec.SearchID)
	assert.True(t, rec.Success)
	assert.Equal(t, int64(42), rec.TotalHits)
	assert.Equal(t, 3, rec.ReturnedHits)
	assert.Empty(t, rec.Error)
	// Sample is capped at the configured size
	assert.Len(t, rec.SamplePrices, 2)
	assert.Equal(t, []float64{12.50, 99.90}, rec.SamplePrices)

	if rec.HasRange {
		assert.Less(t, rec.MinPrice, rec.MaxPrice)
	} else {
		assert.NotEmpty(t, rec.TextQuery)
	}
}

func TestSearcherRecordsFailedSearch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &fakeSearchEngine{
		priceStats: esindex.PriceStats{Min: 1.0, Avg: 250.0, Max: 5000.0},
		searchErr:  errors.New("connection refused"),
		cancel:     cancel,
	}

	config := testSearcherConfig(t)
	stats := common.NewStats()

	s := NewSearcher(engine, config, stats, false)
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, int64(1), stats.TotalSearches)
	assert.Equal(t, int64(1), stats.FailedSearches)

	records, err := perflog.LoadSearchRecords(config.MetricsFile)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.False(t, rec.Success)
	assert.Equal(t, "connection refused", rec.Error)
	assert.Zero(t, rec.TotalHits)
	assert.Empty(t, rec.SamplePrices)
}

func TestSearcherFallsBackToDefaultStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &fakeSearchEngine{
		statsErr: errors.New("aggregation failed"),
		result:   &esindex.SearchResult{},
		cancel:   cancel,
	}

	config := testSearcherConfig(t)

	s := NewSearcher(engine, config, common.NewStats(), false)
	require.NoError(t, s.Run(ctx))

	require.Equal(t, 1, engine.searchCalls)
	q := engine.lastQuery
	if q.Kind != esindex.TextMatchQuery {
		assert.GreaterOrEqual(t, q.MinPrice, esindex.DefaultPriceStats.Min)
		assert.LessOrEqual(t, q.MaxPrice, esindex.DefaultPriceStats.Max)
	}
}
