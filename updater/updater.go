// Package updater implements the continuous price mutation loop: every
// iteration assigns a fresh bucketed price to each known instrument via
// chunked partial updates and appends one row to the update metrics log.
package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/instrperf/InstrumentBench/common"
	"github.com/instrperf/InstrumentBench/esindex"
	"github.com/instrperf/InstrumentBench/instrdata"
	"github.com/instrperf/InstrumentBench/perflog"
)

// UpdateEngine is the slice of the engine boundary the updater needs
type UpdateEngine interface {
	FetchAllISINs(ctx context.Context) ([]string, error)
	BulkUpdatePrices(ctx context.Context, updates []esindex.PriceUpdate, batchSize int) (*esindex.BulkResult, error)
}

// Updater runs the continuous price update loop
type Updater struct {
	engine         UpdateEngine
	config         common.UpdaterConfig
	stats          *common.Stats
	metricsEnabled bool
}

// NewUpdater creates the price mutation runner
func NewUpdater(engine UpdateEngine, config common.UpdaterConfig, stats *common.Stats, metricsEnabled bool) *Updater {
	return &Updater{
		engine:         engine,
		config:         config,
		stats:          stats,
		metricsEnabled: metricsEnabled,
	}
}

// Run fetches the identifier snapshot once and then mutates prices until
// ctx is cancelled. Iterations are strictly sequential; an iteration
// failure is logged and retried after a backoff instead of terminating
// the loop. The in-flight batch and metrics row complete before exit.
func (u *Updater) Run(ctx context.Context) error {
	isins, err := u.engine.FetchAllISINs(ctx)
	if err != nil {
		return fmt.Errorf("error fetching instrument identifiers: %v", err)
	}
	if len(isins) == 0 {
		return fmt.Errorf("no instruments found in the index, run the load step first")
	}

	common.LogInfo("updater", "starting price update loop", logrus.Fields{
		"instruments": len(isins),
		"batch_size":  u.config.BatchSize,
	})

	iteration := 1
	for {
		if ctx.Err() != nil {
			break
		}

		if err := u.runIteration(ctx, iteration, isins); err != nil {
			common.LogError("updater", "update iteration", err, logrus.Fields{
				"iteration": iteration,
			})
			if !sleepContext(ctx, u.config.RetryDelay()) {
				break
			}
			continue
		}

		iteration++

		if !sleepContext(ctx, u.config.Pause()) {
			break
		}
	}

	common.LogInfo("updater", "price update loop stopped", logrus.Fields{
		"iterations": iteration - 1,
	})
	return nil
}

// runIteration updates every instrument once and appends the metrics row
func (u *Updater) runIteration(ctx context.Context, iteration int, isins []string) error {
	updates := make([]esindex.PriceUpdate, 0, len(isins))
	for _, isin := range isins {
		updates = append(updates, esindex.PriceUpdate{
			ISIN:      isin,
			Price:     instrdata.GeneratePrice(),
			Iteration: iteration,
		})
	}

	updateCtx, cancel := context.WithTimeout(ctx, u.config.Timeout())
	defer cancel()

	start := time.Now()
	result, err := u.engine.BulkUpdatePrices(updateCtx, updates, u.config.BatchSize)
	duration := time.Since(start).Seconds()
	if err != nil {
		return fmt.Errorf("bulk update failed: %v", err)
	}

	rate := 0.0
	if duration > 0 {
		rate = float64(result.Succeeded) / duration
	}

	rec := perflog.UpdateRecord{
		Timestamp:        start,
		Iteration:        iteration,
		TotalInstruments: len(isins),
		SuccessCount:     result.Succeeded,
		ErrorCount:       result.Failed,
		DurationSeconds:  duration,
		UpdatesPerSecond: rate,
	}
	if err := perflog.AppendUpdateRecord(u.config.MetricsFile, rec); err != nil {
		return err
	}

	u.stats.IncrementUpdateIterations()
	u.stats.AddUpdatedDocs(result.Succeeded)
	u.stats.AddUpdateErrors(result.Failed)
	if u.metricsEnabled {
		common.UpdateIterationsTotal.Inc()
		common.UpdateDocsSuccess.Add(float64(result.Succeeded))
		common.UpdateDocsFailure.Add(float64(result.Failed))
		common.UpdateDurationHistogram.Observe(duration)
	}

	common.LogInfo("updater", "iteration completed", logrus.Fields{
		"iteration": iteration,
		"updated":   result.Succeeded,
		"errors":    result.Failed,
		"duration":  fmt.Sprintf("%.2fs", duration),
		"rate":      fmt.Sprintf("%.2f/s", rate),
	})

	return nil
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
