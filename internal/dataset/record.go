package dataset

import (
	"math"
	"slices"
)

// Column names of the on-disk table
const (
	ColCompany          = "Company"
	ColMonth            = "Month"
	ColAveragePrice     = "AveragePrice"
	ColHighPrice        = "HighPrice"
	ColLowPrice         = "LowPrice"
	ColVolume           = "Volume"
	ColPerformanceLabel = "PerformanceLabel"
)

// Header is the canonical column order written by the codecs
var Header = []string{
	ColCompany, ColMonth, ColAveragePrice, ColHighPrice, ColLowPrice, ColVolume, ColPerformanceLabel,
}

// Features are the numeric columns scored against PerformanceLabel, in report order
var Features = []string{ColAveragePrice, ColHighPrice, ColLowPrice, ColVolume}

// Record is one monthly observation for a company. A NaN numeric field means
// the source cell was missing or not a number.
type Record struct {
	Company          string  `json:"company"`
	Period           string  `json:"period"`
	AveragePrice     float64 `json:"average_price"`
	HighPrice        float64 `json:"high_price"`
	LowPrice         float64 `json:"low_price"`
	Volume           float64 `json:"volume"`
	PerformanceLabel float64 `json:"performance_label"`
}

// Value returns the numeric field for a column name
func (r Record) Value(column string) (float64, bool) {
	switch column {
	case ColAveragePrice:
		return r.AveragePrice, true
	case ColHighPrice:
		return r.HighPrice, true
	case ColLowPrice:
		return r.LowPrice, true
	case ColVolume:
		return r.Volume, true
	case ColPerformanceLabel:
		return r.PerformanceLabel, true
	}
	return 0, false
}

// Complete reports whether every feature and the label hold a number
func (r Record) Complete() bool {
	for _, v := range []float64{r.AveragePrice, r.HighPrice, r.LowPrice, r.Volume, r.PerformanceLabel} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// LoadStats describes how a file was read
type LoadStats struct {
	Rows             int            `json:"rows"`
	CoercionFailures int            `json:"coercion_failures"`
	FailuresByColumn map[string]int `json:"failures_by_column,omitempty"`
}

func (s *LoadStats) recordFailure(column string) {
	s.CoercionFailures++
	if s.FailuresByColumn == nil {
		s.FailuresByColumn = make(map[string]int)
	}
	s.FailuresByColumn[column]++
}

// Dataset is an ordered, read-only sequence of records
type Dataset struct {
	Records []Record
	Stats   LoadStats
}

// New wraps records in a Dataset
func New(records []Record) *Dataset {
	return &Dataset{
		Records: records,
		Stats:   LoadStats{Rows: len(records)},
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Companies returns the distinct company values in first-appearance order
func (d *Dataset) Companies() []string {
	if d == nil {
		return nil
	}
	var companies []string
	for _, r := range d.Records {
		if !slices.Contains(companies, r.Company) {
			companies = append(companies, r.Company)
		}
	}
	return companies
}

// HasCompany reports whether any record belongs to company
func (d *Dataset) HasCompany(company string) bool {
	if d == nil {
		return false
	}
	return slices.ContainsFunc(d.Records, func(r Record) bool { return r.Company == company })
}

// Filter returns the records of one company in dataset order
func (d *Dataset) Filter(company string) []Record {
	if d == nil {
		return nil
	}
	var out []Record
	for _, r := range d.Records {
		if r.Company == company {
			out = append(out, r)
		}
	}
	return out
}
