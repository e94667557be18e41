package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instrperf/InstrumentBench/perflog"
)

var analysisStart = time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

func updateAt(offset time.Duration, iteration int, durationSeconds float64) perflog.UpdateRecord {
	return perflog.UpdateRecord{
		Timestamp:        analysisStart.Add(offset),
		Iteration:        iteration,
		TotalInstruments: 50000,
		SuccessCount:     50000,
		DurationSeconds:  durationSeconds,
		UpdatesPerSecond: 50000 / durationSeconds,
	}
}

func searchAt(offset time.Duration, durationMs float64) perflog.SearchRecord {
	return perflog.SearchRecord{
		Timestamp:  analysisStart.Add(offset),
		SearchType: "medium_mid",
		QueryType:  "price_range",
		Success:    true,
		DurationMs: durationMs,
	}
}

func TestImpactDoublesDuringUpdates(t *testing.T) {
	updates := []perflog.UpdateRecord{updateAt(0, 1, 5.0)}
	searches := []perflog.SearchRecord{
		// On the window grid: 2s after the update started
		searchAt(2*time.Second, 20.0),
		// Far outside any window
		searchAt(100*time.Second, 10.0),
	}

	report := Analyze(updates, searches)

	require.Len(t, report.Overlaps, 1)
	assert.Equal(t, 1, report.Overlaps[0].SearchCount)
	assert.InDelta(t, 20.0, report.OverlapMeanMs, 1e-9)

	assert.Equal(t, 1, report.BaselineCount)
	assert.InDelta(t, 10.0, report.BaselineMeanMs, 1e-9)

	require.True(t, report.HasImpact)
	assert.InDelta(t, 100.0, report.ImpactPercent, 1e-9)
}

func TestFailedSearchesAreExcluded(t *testing.T) {
	updates := []perflog.UpdateRecord{updateAt(0, 1, 5.0)}

	failed := searchAt(1*time.Second, 500.0)
	failed.Success = false
	failed.Error = "timeout"

	searches := []perflog.SearchRecord{
		failed,
		searchAt(2*time.Second, 20.0),
	}

	report := Analyze(updates, searches)

	assert.Equal(t, 1, report.SearchSummary.Count)
	require.Len(t, report.Overlaps, 1)
	assert.Equal(t, 1, report.Overlaps[0].SearchCount)
	assert.InDelta(t, 20.0, report.Overlaps[0].MeanSearchMs, 1e-9)
}

func TestOffGridSearchCountsAsBaseline(t *testing.T) {
	// A search 2.5s into a 5s window overlaps the window but misses the
	// per-second grid, so it lands in both the overlap and baseline sets.
	updates := []perflog.UpdateRecord{updateAt(0, 1, 5.0)}
	searches := []perflog.SearchRecord{
		searchAt(2500*time.Millisecond, 30.0),
	}

	report := Analyze(updates, searches)

	require.Len(t, report.Overlaps, 1)
	assert.Equal(t, 1, report.BaselineCount)
	assert.InDelta(t, 30.0, report.BaselineMeanMs, 1e-9)
}

func TestCorrelationOnProportionalSeries(t *testing.T) {
	var updates []perflog.UpdateRecord
	var searches []perflog.SearchRecord

	// Five update windows a minute apart; the concurrent search duration
	// grows linearly with the update duration.
	for i := 1; i <= 5; i++ {
		offset := time.Duration(i) * time.Minute
		updates = append(updates, updateAt(offset, i, float64(i)))
		searches = append(searches, searchAt(offset, float64(i)*10.0))
	}

	report := Analyze(updates, searches)

	require.Len(t, report.Overlaps, 5)
	assert.InDelta(t, 1.0, report.DurationVsSearchCorr, 1e-9)
	// Rate falls as duration grows, so the rate correlation is negative
	assert.Negative(t, report.RateVsSearchCorr)
}

func TestAnalyzeEmptyLogs(t *testing.T) {
	report := Analyze(nil, nil)

	assert.Zero(t, report.SearchSummary.Count)
	assert.Zero(t, report.UpdateSummary.Count)
	assert.Empty(t, report.Overlaps)
	assert.False(t, report.HasImpact)
}

func TestMedianInterpolation(t *testing.T) {
	assert.InDelta(t, 2.5, median([]float64{4, 1, 3, 2}), 1e-9)
	assert.InDelta(t, 3.0, median([]float64{5, 1, 3}), 1e-9)
}

func TestSummarize(t *testing.T) {
	s := summarize([]float64{10, 20, 30, 40})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 25.0, s.Mean, 1e-9)
	assert.InDelta(t, 25.0, s.Median, 1e-9)
	assert.InDelta(t, 10.0, s.Min, 1e-9)
	assert.InDelta(t, 40.0, s.Max, 1e-9)
	assert.Greater(t, s.StdDev, 0.0)
}
