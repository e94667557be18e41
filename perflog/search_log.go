package perflog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// searchHeader is the column set of the search metrics log
var searchHeader = []string{
	"timestamp", "search_id", "search_type", "query_type", "min_price",
	"max_price", "price_range_width", "text_query", "success", "duration_ms",
	"total_hits", "returned_hits", "hits_per_ms", "sample_data", "error",
}

// SearchRecord is one search row. HasRange distinguishes range-bearing
// queries from text-only ones, whose price columns stay empty.
type SearchRecord struct {
	Timestamp    time.Time
	SearchID     int
	SearchType   string // Archetype name
	QueryType    string // Query kind: price_range, text_match, combined
	HasRange     bool
	MinPrice     float64
	MaxPrice     float64
	TextQuery    string
	Success      bool
	DurationMs   float64
	TotalHits    int64
	ReturnedHits int
	HitsPerMs    float64
	SamplePrices []float64
	Error        string
}

// PriceRangeWidth returns the width of the queried price band
func (r *SearchRecord) PriceRangeWidth() float64 {
	if !r.HasRange {
		return 0
	}
	return r.MaxPrice - r.MinPrice
}

// AppendSearchRecord appends one row to the search metrics log, writing
// the header first if the file does not exist yet
func AppendSearchRecord(filename string, rec SearchRecord) error {
	writeHeader := !fileExists(filename)

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening metrics file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if writeHeader {
		if err := w.Write(searchHeader); err != nil {
			return fmt.Errorf("error writing metrics header: %v", err)
		}
	}

	var minPrice, maxPrice, width string
	if rec.HasRange {
		minPrice = strconv.FormatFloat(rec.MinPrice, 'f', 2, 64)
		maxPrice = strconv.FormatFloat(rec.MaxPrice, 'f', 2, 64)
		width = strconv.FormatFloat(round2(rec.PriceRangeWidth()), 'f', 2, 64)
	}

	row := []string{
		rec.Timestamp.Format(time.RFC3339Nano),
		strconv.Itoa(rec.SearchID),
		rec.SearchType,
		rec.QueryType,
		minPrice,
		maxPrice,
		width,
		rec.TextQuery,
		strconv.FormatBool(rec.Success),
		strconv.FormatFloat(round2(rec.DurationMs), 'f', 2, 64),
		strconv.FormatInt(rec.TotalHits, 10),
		strconv.Itoa(rec.ReturnedHits),
		strconv.FormatFloat(round2(rec.HitsPerMs), 'f', 2, 64),
		formatSamplePrices(rec.SamplePrices),
		rec.Error,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("error writing metrics row: %v", err)
	}

	w.Flush()
	return w.Error()
}

// LoadSearchRecords reads the full search metrics log
func LoadSearchRecords(filename string) ([]SearchRecord, error) {
	rows, err := readAll(filename, len(searchHeader))
	if err != nil {
		return nil, err
	}

	records := make([]SearchRecord, 0, len(rows))
	for _, row := range rows {
		ts, err := parseTimestamp(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %v", row[0], err)
		}

		rec := SearchRecord{Timestamp: ts}
		rec.SearchID, _ = strconv.Atoi(row[1])
		rec.SearchType = row[2]
		rec.QueryType = row[3]
		if row[4] != "" && row[5] != "" {
			rec.HasRange = true
			rec.MinPrice, _ = strconv.ParseFloat(row[4], 64)
			rec.MaxPrice, _ = strconv.ParseFloat(row[5], 64)
		}
		rec.TextQuery = row[7]
		rec.Success = parseBool(row[8])
		rec.DurationMs, _ = strconv.ParseFloat(row[9], 64)
		rec.TotalHits, _ = strconv.ParseInt(row[10], 10, 64)
		rec.ReturnedHits, _ = strconv.Atoi(row[11])
		rec.HitsPerMs, _ = strconv.ParseFloat(row[12], 64)
		rec.SamplePrices = parseSamplePrices(row[13])
		rec.Error = row[14]

		records = append(records, rec)
	}

	return records, nil
}

// formatSamplePrices renders sample prices as a bracketed list, matching
// the historical log format
func formatSamplePrices(prices []float64) string {
	if len(prices) == 0 {
		return "[]"
	}

	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = strconv.FormatFloat(p, 'f', 2, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// parseSamplePrices parses the bracketed sample list back into values
func parseSamplePrices(value string) []float64 {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	if value == "" {
		return nil
	}

	var prices []float64
	for _, part := range strings.Split(value, ",") {
		p, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			continue
		}
		prices = append(prices, p)
	}
	return prices
}

// parseBool accepts Go and Python boolean spellings
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1":
		return true
	default:
		return false
	}
}
