package instrdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// csvHeader is the column set of the instrument source CSV
var csvHeader = []string{"isin", "name", "long_name", "price"}

// WriteInstrumentsCSV writes instruments to a CSV file with a header row
func WriteInstrumentsCSV(instruments []Instrument, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing CSV header: %v", err)
	}

	for _, instr := range instruments {
		record := []string{
			instr.ISIN,
			instr.Name,
			instr.LongName,
			strconv.FormatFloat(instr.Price, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("error writing CSV record: %v", err)
		}
	}

	w.Flush()
	return w.Error()
}

// ReadInstrumentsCSV reads and validates the instrument source CSV.
// Rows with a duplicate ISIN (first occurrence wins) and rows with any
// empty required field are dropped with a warning; a missing required
// column fails the whole read.
func ReadInstrumentsCSV(filename string) ([]Instrument, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty: %s", filename)
	}

	// Map required columns by header position
	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[name] = i
	}
	for _, required := range csvHeader {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	instruments := make([]Instrument, 0, len(rows)-1)
	seenISINs := make(map[string]struct{}, len(rows)-1)
	duplicates := 0
	dropped := 0

	for _, row := range rows[1:] {
		isin := row[columns["isin"]]
		name := row[columns["name"]]
		longName := row[columns["long_name"]]
		priceStr := row[columns["price"]]

		if isin == "" || name == "" || longName == "" || priceStr == "" {
			dropped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			dropped++
			continue
		}

		if _, dup := seenISINs[isin]; dup {
			duplicates++
			continue
		}
		seenISINs[isin] = struct{}{}

		instruments = append(instruments, Instrument{
			ISIN:     isin,
			Name:     name,
			LongName: longName,
			Price:    price,
		})
	}

	if duplicates > 0 {
		logrus.Warnf("Found %d duplicate ISINs, keeping first occurrence of each", duplicates)
	}
	if dropped > 0 {
		logrus.Warnf("Dropped %d rows with missing or invalid required fields", dropped)
	}

	return instruments, nil
}
