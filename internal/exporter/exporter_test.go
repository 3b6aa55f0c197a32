package exporter

import (
	"bytes"
	"encoding/csv"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockig/internal/analysis"
	"stockig/internal/entropy"
)

func sampleRanking() *analysis.Ranking {
	mk := func(company string, scores []float64, dropped int) *analysis.Result {
		features := []string{"AveragePrice", "HighPrice", "LowPrice", "Volume"}
		r := &analysis.Result{Company: company, UsedRows: 180 - dropped, TotalRows: 180, DroppedRows: dropped}
		sum := 0.0
		for i, f := range features {
			strategy := entropy.StrategyQuantile
			if f == "Volume" && dropped > 0 {
				strategy = entropy.StrategyEqualWidth
			}
			r.Scores = append(r.Scores, analysis.FeatureScore{
				Feature: f,
				Score:   scores[i],
				Binning: analysis.Binning{Strategy: strategy, Bins: 4, Groups: 4},
			})
			sum += scores[i]
			if r.BestFeature == "" || scores[i] > r.BestScore {
				r.BestFeature, r.BestScore = f, scores[i]
			}
		}
		r.Mean = sum / 4
		return r
	}

	tata := mk("Tata", []float64{0.6, 0.3, 0.25, 0.01}, 0)
	reliance := mk("Reliance", []float64{0.7, 0.35, 0.3, 0.02}, 3)
	return &analysis.Ranking{
		Results: []*analysis.Result{tata, reliance},
		Best:    reliance,
		Skipped: []analysis.SkippedCompany{{Company: "Wipro", Reason: analysis.ErrEmptySubset.Error(), Dropped: 4}},
	}
}

func TestWriteConsoleReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsoleReport(&buf, sampleRanking()))
	out := buf.String()

	assert.Contains(t, out, "\nInformation Gain – Tata\n"+strings.Repeat("-", 40)+"\n")
	assert.Contains(t, out, "AveragePrice   : 0.6000\n")
	assert.Contains(t, out, "Volume         : 0.0100\n")
	assert.Contains(t, out, "rows used: 177, dropped: 3, binning: AveragePrice=quantile HighPrice=quantile LowPrice=quantile Volume=equal_width\n")
	assert.Contains(t, out, "\nAverage Information Gain Scores\n"+strings.Repeat("=", 40)+"\n")
	assert.Contains(t, out, "Tata      : 0.2900\n")
	assert.Contains(t, out, "Reliance  : 0.3425\n")
	assert.Contains(t, out, "\nBest Stock Based on Information Gain: Reliance\n")
	assert.Contains(t, out, "Wipro     : no usable rows after cleaning (dropped rows: 4)")

	assert.Less(t, strings.Index(out, "Tata"), strings.Index(out, "Reliance"))
}

func TestWriteRankingCSV(t *testing.T) {
	tests := []struct {
		name string
		bom  bool
	}{
		{"plain", false},
		{"with BOM", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteRankingCSV(&buf, sampleRanking(), WriteOptions{BOMPrefix: tt.bom}))

			data := buf.Bytes()
			assert.Equal(t, tt.bom, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

			rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
			require.NoError(t, err)
			require.Len(t, rows, 9)
			assert.Equal(t, scoreHeader, rows[0])
			assert.Equal(t, []string{"Reliance", "Volume", "0.0200", "equal_width", "4", "177", "3"}, rows[8])
		})
	}
}

func TestSaveRankingXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "ranking.xlsx")
	require.NoError(t, SaveRankingXLSX(path, sampleRanking()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRanking, SheetScores, SheetSkipped}, f.GetSheetList())

	rows, err := f.GetRows(SheetRanking)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Reliance", rows[1][1])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Tata", rows[2][1])

	scores, err := f.GetRows(SheetScores)
	require.NoError(t, err)
	assert.Len(t, scores, 9)
}

func TestWriteRankingXLSXWithoutSkipped(t *testing.T) {
	ranking := sampleRanking()
	ranking.Skipped = nil

	var buf bytes.Buffer
	require.NoError(t, WriteRankingXLSX(&buf, ranking))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetRanking, SheetScores}, f.GetSheetList())
}

func TestWriteBarChart(t *testing.T) {
	var buf bytes.Buffer
	result := sampleRanking().Results[0]

	require.NoError(t, WriteBarChart(&buf, result, ChartWidth, ChartHeight))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Greater(t, img.Bounds().Dy(), 0)
}
