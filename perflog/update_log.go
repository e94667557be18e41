// Package perflog implements the append-only CSV metrics logs written by
// the workload loops and read back by the correlation analyzer. Each loop
// owns its file exclusively; rows are appended one per operation and the
// header is written exactly once, detected by a file-existence check.
package perflog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Timestamps are written in RFC 3339 with sub-second precision. Loading
// also accepts zone-less ISO-8601 values so logs from earlier tooling
// still parse.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// updateHeader is the column set of the update metrics log
var updateHeader = []string{
	"timestamp", "iteration", "total_instruments", "success_count",
	"error_count", "duration_seconds", "updates_per_second",
}

// UpdateRecord is one price-update iteration row
type UpdateRecord struct {
	Timestamp        time.Time
	Iteration        int
	TotalInstruments int
	SuccessCount     int
	ErrorCount       int
	DurationSeconds  float64
	UpdatesPerSecond float64
}

// AppendUpdateRecord appends one row to the update metrics log, writing
// the header first if the file does not exist yet
func AppendUpdateRecord(filename string, rec UpdateRecord) error {
	writeHeader := !fileExists(filename)

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening metrics file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if writeHeader {
		if err := w.Write(updateHeader); err != nil {
			return fmt.Errorf("error writing metrics header: %v", err)
		}
	}

	row := []string{
		rec.Timestamp.Format(time.RFC3339Nano),
		strconv.Itoa(rec.Iteration),
		strconv.Itoa(rec.TotalInstruments),
		strconv.Itoa(rec.SuccessCount),
		strconv.Itoa(rec.ErrorCount),
		strconv.FormatFloat(round2(rec.DurationSeconds), 'f', 2, 64),
		strconv.FormatFloat(round2(rec.UpdatesPerSecond), 'f', 2, 64),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("error writing metrics row: %v", err)
	}

	w.Flush()
	return w.Error()
}

// LoadUpdateRecords reads the full update metrics log
func LoadUpdateRecords(filename string) ([]UpdateRecord, error) {
	rows, err := readAll(filename, len(updateHeader))
	if err != nil {
		return nil, err
	}

	records := make([]UpdateRecord, 0, len(rows))
	for _, row := range rows {
		ts, err := parseTimestamp(row[0])
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %v", row[0], err)
		}

		rec := UpdateRecord{Timestamp: ts}
		rec.Iteration, _ = strconv.Atoi(row[1])
		rec.TotalInstruments, _ = strconv.Atoi(row[2])
		rec.SuccessCount, _ = strconv.Atoi(row[3])
		rec.ErrorCount, _ = strconv.Atoi(row[4])
		rec.DurationSeconds, _ = strconv.ParseFloat(row[5], 64)
		rec.UpdatesPerSecond, _ = strconv.ParseFloat(row[6], 64)

		records = append(records, rec)
	}

	return records, nil
}

// fileExists reports whether the metrics file already exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// parseTimestamp tries the accepted timestamp layouts in order
func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// readAll reads a metrics CSV, skipping the header and checking the
// expected column count
func readAll(filename string, wantColumns int) ([][]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening metrics file: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading metrics file: %v", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	data := rows[1:]
	for i, row := range data {
		if len(row) != wantColumns {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i+2, len(row), wantColumns)
		}
	}
	return data, nil
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}
