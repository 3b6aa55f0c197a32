package http

import (
	"context"
	"io"

	"stockig/internal/analysis"
	"stockig/internal/services"
)

// AnalysisServiceInterface defines the analysis operations the handlers call
type AnalysisServiceInterface interface {
	Companies(ctx context.Context) ([]string, error)
	Analyze(ctx context.Context, company string) (*analysis.Result, error)
	Rank(ctx context.Context) (*analysis.Ranking, error)
	WriteChart(ctx context.Context, company string, w io.Writer) error
	ExportRankingXLSX(ctx context.Context, w io.Writer) error
	ExportRankingCSV(ctx context.Context, w io.Writer) error
	Reload(ctx context.Context) (services.DatasetStats, error)
	Stats(ctx context.Context) (services.DatasetStats, error)
}

var _ AnalysisServiceInterface = (*services.AnalysisService)(nil)
