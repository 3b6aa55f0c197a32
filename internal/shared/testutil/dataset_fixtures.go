package testutil

import (
	"math"
	"path/filepath"
	"testing"

	"stockig/internal/dataset"
)

// FixtureSeed makes synthesized fixtures reproducible
const FixtureSeed = 20240101

// SyntheticDataset returns the 540-row table for Tata, Reliance and Adani
func SyntheticDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	opts := dataset.DefaultSynthOptions()
	opts.Seed = FixtureSeed

	s, err := dataset.NewSynthesizer(opts, nil)
	if err != nil {
		t.Fatalf("synthesizer: %v", err)
	}
	return s.Generate()
}

// WriteSyntheticCSV writes SyntheticDataset into a temp dir and returns its path
func WriteSyntheticCSV(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stock_market_dataset.csv")
	if err := dataset.WriteFile(path, SyntheticDataset(t)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// WithUnusableCompany appends rows for company whose AveragePrice is missing,
// so the company exists but its cleaned subset is empty
func WithUnusableCompany(ds *dataset.Dataset, company string, rows int) *dataset.Dataset {
	records := append([]dataset.Record(nil), ds.Records...)
	for i := 0; i < rows; i++ {
		records = append(records, dataset.Record{
			Company:          company,
			Period:           dataset.Months[i%len(dataset.Months)] + "-2010",
			AveragePrice:     math.NaN(),
			HighPrice:        100,
			LowPrice:         90,
			Volume:           1000,
			PerformanceLabel: 1,
		})
	}
	return dataset.New(records)
}

// WithDroppedRows returns a copy of ds where the first n rows of company lose
// their Volume value
func WithDroppedRows(ds *dataset.Dataset, company string, n int) *dataset.Dataset {
	records := append([]dataset.Record(nil), ds.Records...)
	for i := range records {
		if n == 0 {
			break
		}
		if records[i].Company == company {
			records[i].Volume = math.NaN()
			n--
		}
	}
	return dataset.New(records)
}
