package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"stockig/internal/analysis"
	"stockig/internal/entropy"
	"stockig/internal/services"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Companies(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAnalysisService) Analyze(ctx context.Context, company string) (*analysis.Result, error) {
	args := m.Called(company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}

func (m *MockAnalysisService) Rank(ctx context.Context) (*analysis.Ranking, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Ranking), args.Error(1)
}

func (m *MockAnalysisService) WriteChart(ctx context.Context, company string, w io.Writer) error {
	args := m.Called(company)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, args.String(1))
	return err
}

func (m *MockAnalysisService) ExportRankingXLSX(ctx context.Context, w io.Writer) error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "PK\x03\x04")
	return err
}

func (m *MockAnalysisService) ExportRankingCSV(ctx context.Context, w io.Writer) error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\xef\xbb\xbfCompany,Feature,InformationGain\n")
	return err
}

func (m *MockAnalysisService) Reload(ctx context.Context) (services.DatasetStats, error) {
	args := m.Called()
	return args.Get(0).(services.DatasetStats), args.Error(1)
}

func (m *MockAnalysisService) Stats(ctx context.Context) (services.DatasetStats, error) {
	args := m.Called()
	return args.Get(0).(services.DatasetStats), args.Error(1)
}

// sampleResult is a scored company with one equal-width feature
func sampleResult(company string) *analysis.Result {
	binning := analysis.Binning{Strategy: entropy.StrategyQuantile, Bins: 4, Groups: 4}
	return &analysis.Result{
		Company: company,
		Scores: []analysis.FeatureScore{
			{Feature: "AveragePrice", Score: 0.1234, Binning: binning},
			{Feature: "HighPrice", Score: 0.0456, Binning: binning},
			{Feature: "LowPrice", Score: 0.0789, Binning: binning},
			{Feature: "Volume", Score: 0.0012, Binning: analysis.Binning{Strategy: entropy.StrategyEqualWidth, Bins: 4, Groups: 4}},
		},
		Mean:        0.062275,
		BestFeature: "AveragePrice",
		BestScore:   0.1234,
		TotalRows:   180,
		UsedRows:    178,
		DroppedRows: 2,
	}
}
