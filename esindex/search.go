package esindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/olivere/elastic/v7"
)

// resultSizeCap limits returned rows for consistent timing
const resultSizeCap = 100

// QueryKind distinguishes the query shapes the workload can emit
type QueryKind string

const (
	PriceRangeQuery QueryKind = "price_range" // Range filter on price
	TextMatchQuery  QueryKind = "text_match"  // Full-text match on long name
	CombinedQuery   QueryKind = "combined"    // Boolean AND of range and text match
)

// InstrumentQuery carries the concrete parameters of one search
type InstrumentQuery struct {
	Kind     QueryKind
	MinPrice float64 // Used by range and combined kinds
	MaxPrice float64
	Keyword  string // Used by text and combined kinds
}

// PriceStats holds the observed price statistics of the indexed data
type PriceStats struct {
	Min float64
	Avg float64
	Max float64
}

// DefaultPriceStats is the fallback triple used when the statistics query
// fails
var DefaultPriceStats = PriceStats{Min: 1.0, Avg: 250.0, Max: 5000.0}

// InstrumentHit is one returned instrument row
type InstrumentHit struct {
	ISIN     string  `json:"isin"`
	Name     string  `json:"name"`
	LongName string  `json:"long_name"`
	Price    float64 `json:"price"`
}

// SearchResult is the explicit result of one search request
type SearchResult struct {
	TotalHits    int64 // Total matches, may exceed the returned-row cap
	ReturnedHits int
	Hits         []InstrumentHit
}

// FetchPriceStats computes min/avg/max of the price field with a stats
// aggregation
func (c *Client) FetchPriceStats(ctx context.Context) (PriceStats, error) {
	agg := elastic.NewStatsAggregation().Field("price")

	res, err := c.es.Search(c.indexName).
		Query(elastic.NewMatchAllQuery()).
		Aggregation("price_stats", agg).
		Size(0).
		Do(ctx)
	if err != nil {
		return PriceStats{}, fmt.Errorf("error fetching price statistics: %v", err)
	}

	stats, found := res.Aggregations.Stats("price_stats")
	if !found || stats.Min == nil || stats.Avg == nil || stats.Max == nil {
		return PriceStats{}, fmt.Errorf("price statistics aggregation missing from response")
	}

	return PriceStats{
		Min: *stats.Min,
		Avg: *stats.Avg,
		Max: *stats.Max,
	}, nil
}

// SearchInstruments executes one query against the instrument index,
// sorted ascending by price and capped at 100 returned rows
func (c *Client) SearchInstruments(ctx context.Context, query InstrumentQuery) (*SearchResult, error) {
	source, err := searchSource(query)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(c.indexName).
		SearchSource(source).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("error executing search: %v", err)
	}

	result := &SearchResult{
		TotalHits:    res.TotalHits(),
		ReturnedHits: len(res.Hits.Hits),
	}

	for _, hit := range res.Hits.Hits {
		var instr InstrumentHit
		if err := json.Unmarshal(hit.Source, &instr); err != nil {
			continue
		}
		result.Hits = append(result.Hits, instr)
	}

	return result, nil
}

// searchSource shapes the full request: the translated query, ascending
// price sort and the fixed returned-row cap
func searchSource(query InstrumentQuery) (*elastic.SearchSource, error) {
	q, err := buildQuery(query)
	if err != nil {
		return nil, err
	}

	return elastic.NewSearchSource().
		Query(q).
		Sort("price", true).
		Size(resultSizeCap), nil
}

// buildQuery translates an InstrumentQuery into the engine query DSL
func buildQuery(query InstrumentQuery) (elastic.Query, error) {
	rangeQuery := func() elastic.Query {
		return elastic.NewRangeQuery("price").Gte(query.MinPrice).Lte(query.MaxPrice)
	}
	matchQuery := func() elastic.Query {
		return elastic.NewMatchQuery("long_name", query.Keyword)
	}

	switch query.Kind {
	case PriceRangeQuery:
		return rangeQuery(), nil
	case TextMatchQuery:
		return matchQuery(), nil
	case CombinedQuery:
		return elastic.NewBoolQuery().Must(matchQuery(), rangeQuery()), nil
	default:
		return nil, fmt.Errorf("unknown query kind: %s", query.Kind)
	}
}
