package esindex

import (
	"context"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/sirupsen/logrus"

	"github.com/instrperf/InstrumentBench/instrdata"
)

// BulkError describes one failed document in a bulk request
type BulkError struct {
	ISIN   string
	Status int
	Reason string
}

// BulkResult aggregates success and error counts across all submitted
// batches of one bulk operation
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    []BulkError
}

// PriceUpdate is one partial price update keyed by ISIN
type PriceUpdate struct {
	ISIN      string
	Price     float64
	Iteration int
}

// BulkIndexInstruments upserts instruments in batches of batchSize. The
// ISIN is used as the document id, so re-indexing the same instruments
// overwrites instead of duplicating. Per-batch errors are accumulated and
// do not abort subsequent batches. The loop stops between batches when ctx
// is cancelled, returning the partial result.
func (c *Client) BulkIndexInstruments(ctx context.Context, instruments []instrdata.Instrument, batchSize int) (*BulkResult, error) {
	result := &BulkResult{}
	totalBatches := (len(instruments) + batchSize - 1) / batchSize

	for i := 0; i < len(instruments); i += batchSize {
		if ctx.Err() != nil {
			break
		}

		end := i + batchSize
		if end > len(instruments) {
			end = len(instruments)
		}
		batch := instruments[i:end]

		logrus.Debugf("Indexing batch %d/%d (records %d-%d)", i/batchSize+1, totalBatches, i+1, end)

		bulk := c.es.Bulk()
		now := time.Now().Format(time.RFC3339)
		for _, instr := range batch {
			doc := map[string]interface{}{
				"isin":       instr.ISIN,
				"name":       instr.Name,
				"long_name":  instr.LongName,
				"price":      instr.Price,
				"updated_at": now,
			}
			bulk = bulk.Add(elastic.NewBulkIndexRequest().
				Index(c.indexName).
				Id(instr.ISIN).
				Doc(doc))
		}

		resp, err := bulk.Do(ctx)
		if err != nil {
			// The whole batch failed; count it and move on
			result.Failed += len(batch)
			result.Errors = append(result.Errors, BulkError{Reason: err.Error()})
			continue
		}

		collectBulkResponse(resp, result)
	}

	return result, nil
}

// BulkUpdatePrices submits partial price updates in batches of batchSize
// with the same partial-failure semantics as BulkIndexInstruments
func (c *Client) BulkUpdatePrices(ctx context.Context, updates []PriceUpdate, batchSize int) (*BulkResult, error) {
	result := &BulkResult{}
	totalBatches := (len(updates) + batchSize - 1) / batchSize

	for i := 0; i < len(updates); i += batchSize {
		if ctx.Err() != nil {
			break
		}

		end := i + batchSize
		if end > len(updates) {
			end = len(updates)
		}
		batch := updates[i:end]

		logrus.Debugf("Updating batch %d/%d (records %d-%d)", i/batchSize+1, totalBatches, i+1, end)

		bulk := c.es.Bulk()
		now := time.Now().Format(time.RFC3339)
		for _, upd := range batch {
			doc := map[string]interface{}{
				"price":            upd.Price,
				"updated_at":       now,
				"update_iteration": upd.Iteration,
			}
			bulk = bulk.Add(elastic.NewBulkUpdateRequest().
				Index(c.indexName).
				Id(upd.ISIN).
				Doc(doc))
		}

		resp, err := bulk.Do(ctx)
		if err != nil {
			result.Failed += len(batch)
			result.Errors = append(result.Errors, BulkError{Reason: err.Error()})
			continue
		}

		collectBulkResponse(resp, result)
	}

	return result, nil
}

// collectBulkResponse folds one bulk response into the aggregate result
func collectBulkResponse(resp *elastic.BulkResponse, result *BulkResult) {
	result.Succeeded += len(resp.Succeeded())

	for _, item := range resp.Failed() {
		result.Failed++
		berr := BulkError{ISIN: item.Id, Status: item.Status}
		if item.Error != nil {
			berr.Reason = item.Error.Reason
		}
		result.Errors = append(result.Errors, berr)
	}
}
