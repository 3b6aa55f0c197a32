package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"stockig/internal/analysis"
	"stockig/internal/config"
	"stockig/internal/dataset"
	"stockig/internal/exporter"
	"stockig/internal/infrastructure"
)

// companyRule bounds the company identifier accepted from callers
const companyRule = "required,max=64"

// DatasetStats describes the dataset currently served
type DatasetStats struct {
	Path             string             `json:"path"`
	Rows             int                `json:"rows"`
	Companies        []string           `json:"companies"`
	CoercionFailures int                `json:"coercion_failures"`
	FailuresByColumn map[string]int     `json:"failures_by_column,omitempty"`
	Cache            dataset.CacheStats `json:"cache"`
}

// AnalysisService scores companies of the configured dataset file
type AnalysisService struct {
	datasetPath string
	cache       *dataset.Cache
	analyzer    *analysis.Analyzer
	metrics     *infrastructure.BusinessMetrics
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAnalysisService wires the service from configuration. metrics may be nil.
func NewAnalysisService(cfg *config.Config, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*AnalysisService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("analysis service: nil config")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return NewAnalysisServiceWith(cfg.DatasetPath(), dataset.NewCache(logger),
		analysis.NewAnalyzer(cfg.Analysis.Bins, logger), metrics, logger), nil
}

// NewAnalysisServiceWith assembles the service from its parts
func NewAnalysisServiceWith(path string, cache *dataset.Cache, analyzer *analysis.Analyzer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "analysis_service"))

	logger.Info("AnalysisService initialized",
		slog.String("dataset_path", path),
		slog.Int("bins", analyzer.Bins()))

	return &AnalysisService{
		datasetPath: path,
		cache:       cache,
		analyzer:    analyzer,
		metrics:     metrics,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// DatasetPath returns the absolute path of the served file
func (s *AnalysisService) DatasetPath() string {
	return s.datasetPath
}

// Dataset returns the cached dataset, re-reading the file if it changed
func (s *AnalysisService) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	ds, hit, err := s.cache.Load(s.datasetPath)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("path", s.datasetPath),
			slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}

	if s.metrics != nil {
		attrs := metric.WithAttributes(attribute.String("path", s.datasetPath))
		if hit {
			s.metrics.CacheHits.Add(ctx, 1, attrs)
		} else {
			s.metrics.CacheMisses.Add(ctx, 1, attrs)
		}
	}

	if !hit && ds.Stats.CoercionFailures > 0 {
		s.logger.WarnContext(ctx, "non-numeric cells treated as missing",
			slog.Int("cells", ds.Stats.CoercionFailures),
			slog.Any("by_column", ds.Stats.FailuresByColumn))
	}

	return ds, nil
}

// Companies lists the distinct companies in first-appearance order
func (s *AnalysisService) Companies(ctx context.Context) ([]string, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Companies(), nil
}

// Analyze scores the features of one company
func (s *AnalysisService) Analyze(ctx context.Context, company string) (*analysis.Result, error) {
	if err := s.validate.Var(company, companyRule); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCompany, company)
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, ds, company)
	if err != nil {
		infrastructure.RecordAnalysisMetrics(ctx, s.metrics, company, time.Since(start), 0, 0, err)
		return nil, err
	}

	infrastructure.RecordAnalysisMetrics(ctx, s.metrics, company, time.Since(start),
		result.DroppedRows, len(result.Fallbacks()), nil)

	return result, nil
}

// Rank scores every company and picks the best mean
func (s *AnalysisService) Rank(ctx context.Context) (*analysis.Ranking, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ranking, err := s.analyzer.Rank(ctx, ds)
	if ranking != nil && len(ranking.Results) > 0 {
		// Companies of one ranking share its wall time
		per := time.Since(start) / time.Duration(len(ranking.Results))
		for _, r := range ranking.Results {
			infrastructure.RecordAnalysisMetrics(ctx, s.metrics, r.Company, per, r.DroppedRows, len(r.Fallbacks()), nil)
		}
	}
	return ranking, err
}

// WriteChart renders the company's bar chart as PNG
func (s *AnalysisService) WriteChart(ctx context.Context, company string, w io.Writer) error {
	result, err := s.Analyze(ctx, company)
	if err != nil {
		return err
	}
	return exporter.WriteBarChart(w, result, exporter.ChartWidth, exporter.ChartHeight)
}

// ExportRankingXLSX writes the ranking workbook
func (s *AnalysisService) ExportRankingXLSX(ctx context.Context, w io.Writer) error {
	ranking, err := s.Rank(ctx)
	if err != nil {
		return err
	}
	return exporter.WriteRankingXLSX(w, ranking)
}

// ExportRankingCSV writes the per-feature ranking table with a UTF-8 BOM
func (s *AnalysisService) ExportRankingCSV(ctx context.Context, w io.Writer) error {
	ranking, err := s.Rank(ctx)
	if err != nil {
		return err
	}
	return exporter.WriteRankingCSV(w, ranking, exporter.WriteOptions{BOMPrefix: true})
}

// Reload drops the cached dataset and reads the file again
func (s *AnalysisService) Reload(ctx context.Context) (DatasetStats, error) {
	s.cache.Invalidate(s.datasetPath)
	s.logger.InfoContext(ctx, "dataset cache invalidated", slog.String("path", s.datasetPath))
	return s.Stats(ctx)
}

// Stats describes the served dataset and the cache counters
func (s *AnalysisService) Stats(ctx context.Context) (DatasetStats, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return DatasetStats{Path: s.datasetPath, Cache: s.cache.Stats()}, err
	}
	return DatasetStats{
		Path:             s.datasetPath,
		Rows:             ds.Len(),
		Companies:        ds.Companies(),
		CoercionFailures: ds.Stats.CoercionFailures,
		FailuresByColumn: ds.Stats.FailuresByColumn,
		Cache:            s.cache.Stats(),
	}, nil
}

// CheckDataset reports whether the dataset can be loaded
func (s *AnalysisService) CheckDataset(ctx context.Context) error {
	_, err := s.Dataset(ctx)
	return err
}
