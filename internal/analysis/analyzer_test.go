package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockig/internal/dataset"
	"stockig/internal/entropy"
	"stockig/internal/shared/testutil"
)

func TestAnalyzeSyntheticTata(t *testing.T) {
	ds := testutil.SyntheticDataset(t)
	a := NewAnalyzer(4, nil)

	result, err := a.Analyze(context.Background(), ds, "Tata")
	require.NoError(t, err)

	scores := result.ScoreMap()
	require.Len(t, scores, 4)
	for _, f := range []string{"AveragePrice", "HighPrice", "LowPrice", "Volume"} {
		v, ok := scores[f]
		require.True(t, ok, f)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), f)
	}

	assert.Equal(t, dataset.Features, []string{
		result.Scores[0].Feature, result.Scores[1].Feature, result.Scores[2].Feature, result.Scores[3].Feature,
	})
	assert.Equal(t, 180, result.TotalRows)
	assert.Equal(t, 180, result.UsedRows)
	assert.Equal(t, 0, result.DroppedRows)

	// AveragePrice fully determines the label up to bin boundaries
	assert.Greater(t, scores["AveragePrice"], scores["Volume"])

	sum := 0.0
	for _, s := range result.Scores {
		sum += s.Score
		assert.Equal(t, entropy.StrategyQuantile, s.Binning.Strategy)
		assert.LessOrEqual(t, s.Binning.Groups, 4)
		assert.Len(t, s.Binning.Labels, s.Binning.Bins)
	}
	assert.InDelta(t, sum/4, result.Mean, 1e-12)
	assert.Equal(t, scores[result.BestFeature], result.BestScore)
	for _, v := range scores {
		assert.LessOrEqual(t, v, result.BestScore)
	}
}

func TestAnalyzePreconditions(t *testing.T) {
	base := testutil.SyntheticDataset(t)

	tests := []struct {
		name        string
		ds          *dataset.Dataset
		company     string
		wantErr     error
		wantDropped int
	}{
		{"unknown company", base, "Infosys", ErrUnknownCompany, 0},
		{"every row dropped", testutil.WithUnusableCompany(base, "Wipro", 6), "Wipro", ErrEmptySubset, 6},
		{"empty dataset", dataset.New(nil), "Tata", ErrUnknownCompany, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewAnalyzer(4, nil).Analyze(context.Background(), tt.ds, tt.company)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.company)

			var pe *PreconditionError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantDropped, pe.Dropped)
		})
	}
}

func TestAnalyzeReportsDroppedRows(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	ds := testutil.WithDroppedRows(testutil.SyntheticDataset(t), "Reliance", 12)

	result, err := NewAnalyzer(4, logger).Analyze(context.Background(), ds, "Reliance")
	require.NoError(t, err)

	assert.Equal(t, 180, result.TotalRows)
	assert.Equal(t, 168, result.UsedRows)
	assert.Equal(t, 12, result.DroppedRows)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "rows dropped")
	testutil.AssertLogAttr(t, handler, "dropped", int64(12))
}

func TestAnalyzeReportsBinningFallback(t *testing.T) {
	records := make([]dataset.Record, 8)
	for i := range records {
		label := float64(i % 2)
		records[i] = dataset.Record{
			Company:          "Flat",
			Period:           dataset.Months[i] + "-2010",
			AveragePrice:     float64(100 + i),
			HighPrice:        float64(110 + i),
			LowPrice:         float64(90 + i),
			Volume:           5000, // constant column collapses quantile edges
			PerformanceLabel: label,
		}
	}
	logger, handler := testutil.NewTestLogger(t)

	result, err := NewAnalyzer(4, logger).Analyze(context.Background(), dataset.New(records), "Flat")
	require.NoError(t, err)

	assert.Equal(t, []string{"Volume"}, result.Fallbacks())
	assert.InDelta(t, 0, result.ScoreMap()["Volume"], 1e-6)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "equal-width")
}

func TestNewAnalyzerDefaultsBins(t *testing.T) {
	assert.Equal(t, entropy.DefaultBins, NewAnalyzer(0, nil).Bins())
	assert.Equal(t, 6, NewAnalyzer(6, nil).Bins())
}
