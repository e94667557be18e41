// Package loader validates the instrument source CSV and upserts it into
// the search index in fixed-size batches.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/instrperf/InstrumentBench/common"
	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/instrdata"
)

// LoadEngine is the slice of the engine boundary the loader needs
type LoadEngine interface {
	IndexExists(ctx context.Context) (bool, error)
	BulkIndexInstruments(ctx context.Context, instruments []instrdata.Instrument, batchSize int) (*esindex.BulkResult, error)
	CountDocuments(ctx context.Context) (int64, error)
}

// Report summarizes one load run
type Report struct {
	TotalRecords int
	Succeeded    int
	Failed       int
	IndexDocs    int64 // Documents in the index after the load
	Elapsed      time.Duration
}

// Rate returns the successful records per second
func (r *Report) Rate() float64 {
	seconds := r.Elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(r.Succeeded) / seconds
}

// Run reads the source CSV, validates it and bulk-upserts the records
// keyed by ISIN, so re-running the same file overwrites instead of
// duplicating. Per-batch errors are reported but never abort later
// batches.
func Run(ctx context.Context, engine LoadEngine, config common.LoaderConfig) (*Report, error) {
	exists, err := engine.IndexExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("instrument index does not exist, run create-index first")
	}

	instruments, err := instrdata.ReadInstrumentsCSV(config.InputFile)
	if err != nil {
		return nil, fmt.Errorf("error reading source CSV: %v", err)
	}
	if len(instruments) == 0 {
		return nil, fmt.Errorf("no valid instrument rows in %s", config.InputFile)
	}

	common.LogInfo("loader", "starting bulk upsert", logrus.Fields{
		"records":    len(instruments),
		"batch_size": config.BatchSize,
	})

	start := time.Now()
	result, err := engine.BulkIndexInstruments(ctx, instruments, config.BatchSize)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TotalRecords: len(instruments),
		Succeeded:    result.Succeeded,
		Failed:       result.Failed,
		Elapsed:      time.Since(start),
	}

	for i, berr := range result.Errors {
		if i >= 3 {
			// Only surface the first few errors
			break
		}
		common.LogWarning("loader", "bulk error", logrus.Fields{
			"isin":   berr.ISIN,
			"status": berr.Status,
			"reason": berr.Reason,
		})
	}

	// Post-load verification: report what the index actually holds. A
	// failed count does not fail an otherwise successful load.
	if count, err := engine.CountDocuments(ctx); err != nil {
		common.LogWarning("loader", "document count verification failed", logrus.Fields{
			"error": err.Error(),
		})
	} else {
		report.IndexDocs = count
	}

	common.LogInfo("loader", "bulk upsert completed", logrus.Fields{
		"succeeded":  report.Succeeded,
		"failed":     report.Failed,
		"index_docs": report.IndexDocs,
		"elapsed":    report.Elapsed.Round(time.Millisecond).String(),
		"rate":       fmt.Sprintf("%.2f/s", report.Rate()),
	})

	return report, nil
}
