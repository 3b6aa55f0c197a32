package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockig/internal/dataset"
	"stockig/internal/shared/testutil"
)

func TestRank(t *testing.T) {
	ds := testutil.SyntheticDataset(t)

	ranking, err := NewAnalyzer(4, nil).Rank(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, ranking.Results, 3)
	assert.Empty(t, ranking.Skipped)
	assert.Equal(t, "Tata", ranking.Results[0].Company)
	assert.Equal(t, "Reliance", ranking.Results[1].Company)
	assert.Equal(t, "Adani", ranking.Results[2].Company)

	for _, r := range ranking.Results {
		assert.LessOrEqual(t, r.Mean, ranking.Best.Mean)
	}
}

func TestRankSkipsUnusableCompanies(t *testing.T) {
	ds := testutil.WithUnusableCompany(testutil.SyntheticDataset(t), "Wipro", 4)

	ranking, err := NewAnalyzer(4, nil).Rank(context.Background(), ds)
	require.NoError(t, err)

	assert.Len(t, ranking.Results, 3)
	require.Len(t, ranking.Skipped, 1)
	assert.Equal(t, "Wipro", ranking.Skipped[0].Company)
	assert.Equal(t, 4, ranking.Skipped[0].Dropped)
	assert.Equal(t, ErrEmptySubset.Error(), ranking.Skipped[0].Reason)
}

func TestRankTiesKeepFirst(t *testing.T) {
	var records []dataset.Record
	for _, company := range []string{"First", "Second"} {
		for i := 0; i < 8; i++ {
			records = append(records, dataset.Record{
				Company:          company,
				Period:           dataset.Months[i] + "-2010",
				AveragePrice:     float64(100 + i),
				HighPrice:        float64(110 + i),
				LowPrice:         float64(90 + i),
				Volume:           float64(1000 + i),
				PerformanceLabel: float64(i / 4),
			})
		}
	}

	ranking, err := NewAnalyzer(4, nil).Rank(context.Background(), dataset.New(records))
	require.NoError(t, err)

	assert.Equal(t, ranking.Results[0].Mean, ranking.Results[1].Mean)
	assert.Equal(t, "First", ranking.Best.Company)
}

func TestRankNothingToRank(t *testing.T) {
	ds := testutil.WithUnusableCompany(dataset.New(nil), "Wipro", 2)

	ranking, err := NewAnalyzer(4, nil).Rank(context.Background(), ds)
	assert.ErrorIs(t, err, ErrNothingToRank)
	require.NotNil(t, ranking)
	assert.Len(t, ranking.Skipped, 1)

	_, err = NewAnalyzer(4, nil).Rank(context.Background(), dataset.New(nil))
	assert.ErrorIs(t, err, ErrNothingToRank)
}

func TestRankHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(4, nil).Rank(ctx, testutil.SyntheticDataset(t))
	assert.ErrorIs(t, err, context.Canceled)
}
