package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"stockig/internal/analysis"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // UTF-8 BOM so Excel detects the encoding
}

// WriteRankingCSV writes one row per company and feature
func WriteRankingCSV(w io.Writer, ranking *analysis.Ranking, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(scoreHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range scoreRows(ranking) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
