// Package searcher implements the continuous query workload: one query per
// iteration sampled from the archetype catalog, executed against the
// instrument index with its latency appended to the search metrics log.
package searcher

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/instrperf/InstrumentBench/common"
	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/perflog"
)

// SearchEngine is the slice of the engine boundary the workload needs
type SearchEngine interface {
	FetchPriceStats(ctx context.Context) (esindex.PriceStats, error)
	SearchInstruments(ctx context.Context, query esindex.InstrumentQuery) (*esindex.SearchResult, error)
}

// Searcher runs the continuous query loop
type Searcher struct {
	engine         SearchEngine
	config         common.SearcherConfig
	stats          *common.Stats
	metricsEnabled bool
}

// NewSearcher creates the query workload runner
func NewSearcher(engine SearchEngine, config common.SearcherConfig, stats *common.Stats, metricsEnabled bool) *Searcher {
	return &Searcher{
		engine:         engine,
		config:         config,
		stats:          stats,
		metricsEnabled: metricsEnabled,
	}
}

// Run executes queries until ctx is cancelled. Iterations are strictly
// sequential: the next query does not start before the previous row has
// been appended. The in-flight query is completed and logged before exit.
func (s *Searcher) Run(ctx context.Context) error {
	// Price statistics are computed once per run; a failed statistics
	// query falls back to the fixed default span.
	priceStats, err := s.engine.FetchPriceStats(ctx)
	if err != nil {
		common.LogWarning("searcher", "price statistics query failed, using default range", logrus.Fields{
			"error": err.Error(),
		})
		priceStats = esindex.DefaultPriceStats
	}

	common.LogInfo("searcher", "starting search workload", logrus.Fields{
		"min_price": priceStats.Min,
		"avg_price": priceStats.Avg,
		"max_price": priceStats.Max,
		"catalog":   len(Catalog),
	})

	searchID := 1
	for {
		if ctx.Err() != nil {
			break
		}

		cq := NextQuery(priceStats)
		if err := s.runOnce(ctx, searchID, cq); err != nil {
			// Metrics-log failures are loop errors, not query failures:
			// back off and retry without consuming the search id
			common.LogError("searcher", "search iteration", err, logrus.Fields{
				"search_id": searchID,
			})
			if !sleepContext(ctx, s.config.RetryDelay()) {
				break
			}
			continue
		}

		searchID++

		if !sleepContext(ctx, s.config.Pause()) {
			break
		}
	}

	common.LogInfo("searcher", "search workload stopped", logrus.Fields{
		"searches": searchID - 1,
	})
	return nil
}

// runOnce executes a single query and appends its metrics row. Query
// failures are recorded as failed rows, not returned as errors.
func (s *Searcher) runOnce(ctx context.Context, searchID int, cq ConcreteQuery) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.Timeout())
	defer cancel()

	start := time.Now()
	result, err := s.engine.SearchInstruments(queryCtx, cq.Query)
	duration := time.Since(start)
	durationMs := float64(duration.Microseconds()) / 1000.0

	rec := perflog.SearchRecord{
		Timestamp:  start,
		SearchID:   searchID,
		SearchType: cq.Archetype,
		QueryType:  string(cq.Query.Kind),
		HasRange:   cq.HasRange,
		MinPrice:   cq.Query.MinPrice,
		MaxPrice:   cq.Query.MaxPrice,
		TextQuery:  cq.Query.Keyword,
		DurationMs: durationMs,
	}

	s.stats.IncrementTotalSearches()

	if err != nil {
		rec.Success = false
		rec.Error = err.Error()

		s.stats.IncrementFailedSearches()
		if s.metricsEnabled {
			common.SearchRequestsTotal.Inc()
			common.SearchRequestsFailure.Inc()
		}

		common.LogWarning("searcher", "search failed", logrus.Fields{
			"search_id": searchID,
			"archetype": cq.Archetype,
			"error":     err.Error(),
		})
	} else {
		rec.Success = true
		rec.TotalHits = result.TotalHits
		rec.ReturnedHits = result.ReturnedHits
		if durationMs > 0 {
			rec.HitsPerMs = float64(result.TotalHits) / durationMs
		}
		rec.SamplePrices = samplePrices(result, s.config.SampleSize)

		s.stats.IncrementSuccessfulSearches()
		s.stats.AddHits(result.TotalHits)
		if s.metricsEnabled {
			common.SearchRequestsTotal.Inc()
			common.SearchRequestsSuccess.Inc()
			common.SearchDurationHistogram.Observe(duration.Seconds())
			common.SearchHitsHistogram.Observe(float64(result.TotalHits))
			common.ArchetypeCounter.WithLabelValues(cq.Archetype, string(cq.Query.Kind)).Inc()
		}

		logrus.Debugf("Search #%d %s: %d hits in %.2fms", searchID, cq.Archetype, result.TotalHits, durationMs)
	}

	return perflog.AppendSearchRecord(s.config.MetricsFile, rec)
}

// samplePrices returns up to sampleSize prices from the returned rows
func samplePrices(result *esindex.SearchResult, sampleSize int) []float64 {
	n := len(result.Hits)
	if n > sampleSize {
		n = sampleSize
	}

	prices := make([]float64, 0, n)
	for _, hit := range result.Hits[:n] {
		prices = append(prices, hit.Price)
	}
	return prices
}

// sleepContext pauses for d and reports false when ctx was cancelled first
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
