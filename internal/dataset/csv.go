package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"stockig/internal/files"
)

var (
	// ErrMissingColumn means a required header column is absent
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyFile means the file has no header row
	ErrEmptyFile = errors.New("empty dataset file")
)

const utf8BOM = "\ufeff"

// WriteCSV writes the dataset with the canonical header
func WriteCSV(w io.Writer, ds *Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for i, r := range ds.Records {
		if err := writer.Write(formatRecord(r)); err != nil {
			return fmt.Errorf("write CSV record %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the dataset to path, creating parent directories
func WriteFile(path string, ds *Dataset) error {
	return files.WriteAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, ds)
	})
}

// ReadCSV parses a table whose header names the required columns in any order.
// Unparseable numeric cells become NaN and are counted in Dataset.Stats.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}

	return decodeRows(header, rows)
}

// LoadFile reads a dataset from a .csv or .xlsx file
func LoadFile(path string) (*Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// decodeRows maps header names to columns and coerces every row
func decodeRows(header []string, rows [][]string) (*Dataset, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		index[name] = i
	}

	for _, col := range Header {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	ds := &Dataset{Records: make([]Record, 0, len(rows))}

	cell := func(row []string, col string) string {
		if i := index[col]; i < len(row) {
			return row[i]
		}
		return ""
	}
	number := func(row []string, col string) float64 {
		v, ok := parseNumber(cell(row, col))
		if !ok {
			ds.Stats.recordFailure(col)
			return math.NaN()
		}
		return v
	}

	for _, row := range rows {
		ds.Records = append(ds.Records, Record{
			Company:          strings.TrimSpace(cell(row, ColCompany)),
			Period:           strings.TrimSpace(cell(row, ColMonth)),
			AveragePrice:     number(row, ColAveragePrice),
			HighPrice:        number(row, ColHighPrice),
			LowPrice:         number(row, ColLowPrice),
			Volume:           number(row, ColVolume),
			PerformanceLabel: number(row, ColPerformanceLabel),
		})
	}
	ds.Stats.Rows = len(ds.Records)

	return ds, nil
}

// parseNumber accepts finite decimals only
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatRecord(r Record) []string {
	return []string{
		r.Company,
		r.Period,
		formatNumber(r.AveragePrice),
		formatNumber(r.HighPrice),
		formatNumber(r.LowPrice),
		formatNumber(r.Volume),
		formatNumber(r.PerformanceLabel),
	}
}

// formatNumber renders integers without a fraction and NaN as an empty cell
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
