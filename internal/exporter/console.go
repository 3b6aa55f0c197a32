package exporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"stockig/internal/analysis"
)

// WriteConsoleReport prints the ranking the way the console tool shows it
func WriteConsoleReport(w io.Writer, ranking *analysis.Ranking) error {
	bw := bufio.NewWriter(w)

	for _, r := range ranking.Results {
		fmt.Fprintf(bw, "\nInformation Gain – %s\n", r.Company)
		fmt.Fprintln(bw, strings.Repeat("-", 40))
		for _, s := range r.Scores {
			fmt.Fprintf(bw, "%-15s: %s\n", s.Feature, formatScore(s.Score))
		}
		fmt.Fprintf(bw, "rows used: %d, dropped: %d, binning: %s\n", r.UsedRows, r.DroppedRows, formatBinning(r))
	}

	fmt.Fprintln(bw, "\nAverage Information Gain Scores")
	fmt.Fprintln(bw, strings.Repeat("=", 40))
	for _, r := range ranking.Results {
		fmt.Fprintf(bw, "%-10s: %s\n", r.Company, formatScore(r.Mean))
	}

	if ranking.Best != nil {
		fmt.Fprintf(bw, "\nBest Stock Based on Information Gain: %s\n", ranking.Best.Company)
	}

	if len(ranking.Skipped) > 0 {
		fmt.Fprintln(bw, "\nSkipped Companies")
		fmt.Fprintln(bw, strings.Repeat("-", 40))
		for _, s := range ranking.Skipped {
			fmt.Fprintf(bw, "%-10s: %s (dropped rows: %d)\n", s.Company, s.Reason, s.Dropped)
		}
	}

	return bw.Flush()
}
