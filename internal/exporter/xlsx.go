package exporter

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"stockig/internal/analysis"
	"stockig/internal/files"
)

// Sheet names of the ranking workbook
const (
	SheetRanking = "Ranking"
	SheetScores  = "Scores"
	SheetSkipped = "Skipped"
)

// WriteRankingXLSX writes the ranking as a workbook: a summary sheet, the
// per-feature scores and, when present, the skipped companies
func WriteRankingXLSX(w io.Writer, ranking *analysis.Ranking) error {
	f, err := rankingWorkbook(ranking)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveRankingXLSX writes the ranking workbook to path
func SaveRankingXLSX(path string, ranking *analysis.Ranking) error {
	return files.WriteAtomic(path, func(w io.Writer) error {
		return WriteRankingXLSX(w, ranking)
	})
}

func rankingWorkbook(ranking *analysis.Ranking) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetRanking); err != nil {
		f.Close()
		return nil, err
	}

	summary := [][]interface{}{{"Rank", "Company", "MeanInformationGain", "BestFeature", "BestScore", "UsedRows", "DroppedRows"}}
	for i, r := range sortedByMean(ranking.Results) {
		summary = append(summary, []interface{}{i + 1, r.Company, r.Mean, r.BestFeature, r.BestScore, r.UsedRows, r.DroppedRows})
	}
	if err := writeSheet(f, SheetRanking, summary); err != nil {
		f.Close()
		return nil, err
	}

	scores := [][]interface{}{{"Company", "Feature", "InformationGain", "Binning", "Bins", "Groups"}}
	for _, r := range ranking.Results {
		for _, s := range r.Scores {
			scores = append(scores, []interface{}{r.Company, s.Feature, s.Score, string(s.Binning.Strategy), s.Binning.Bins, s.Binning.Groups})
		}
	}
	if _, err := f.NewSheet(SheetScores); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, SheetScores, scores); err != nil {
		f.Close()
		return nil, err
	}

	if len(ranking.Skipped) > 0 {
		skipped := [][]interface{}{{"Company", "Reason", "DroppedRows"}}
		for _, s := range ranking.Skipped {
			skipped = append(skipped, []interface{}{s.Company, s.Reason, s.Dropped})
		}
		if _, err := f.NewSheet(SheetSkipped); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSheet(f, SheetSkipped, skipped); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// sortedByMean orders results by mean descending, keeping input order on ties
func sortedByMean(results []*analysis.Result) []*analysis.Result {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b *analysis.Result) int {
		return cmp.Compare(b.Mean, a.Mean)
	})
	return out
}
