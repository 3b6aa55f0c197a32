package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"stockig/internal/analysis"
)

// formatScore renders a score with four decimals
func formatScore(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBinning lists each feature's binning strategy, e.g. "AveragePrice=quantile"
func formatBinning(r *analysis.Result) string {
	parts := make([]string, 0, len(r.Scores))
	for _, s := range r.Scores {
		parts = append(parts, fmt.Sprintf("%s=%s", s.Feature, s.Binning.Strategy))
	}
	return strings.Join(parts, " ")
}

// scoreHeader is the column set of the flat per-feature table
var scoreHeader = []string{"Company", "Feature", "InformationGain", "Binning", "Bins", "UsedRows", "DroppedRows"}

// scoreRows flattens a ranking into one row per company and feature
func scoreRows(ranking *analysis.Ranking) [][]string {
	var rows [][]string
	for _, r := range ranking.Results {
		for _, s := range r.Scores {
			rows = append(rows, []string{
				r.Company,
				s.Feature,
				formatScore(s.Score),
				string(s.Binning.Strategy),
				formatInt(s.Binning.Bins),
				formatInt(r.UsedRows),
				formatInt(r.DroppedRows),
			})
		}
	}
	return rows
}
