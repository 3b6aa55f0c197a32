// Command rank prints the information gain of every feature for every company
// in the configured dataset and names the company with the highest mean.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"stockig/internal/analysis"
	"stockig/internal/config"
	"stockig/internal/exporter"
	"stockig/internal/infrastructure"
	"stockig/internal/services"
	"stockig/internal/validation"
)

func main() {
	os.Exit(run(os.Stdout))
}

func run(stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())

	providers, err := infrastructure.InitializeOTel(
		infrastructure.OTelConfigFrom(cfg.Telemetry, infrastructure.ServiceName+"-rank"), logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	if err := rank(ctx, cfg, logger, stdout); err != nil {
		logger.ErrorContext(ctx, "Ranking failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// rank scores the dataset and writes the console report, and the XLSX
// workbook when paths.report_xlsx is set
func rank(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	if cfg.Paths.ReportXLSX != "" {
		if err := validation.NewFileValidator(logger).ValidateOutputFile(cfg.Paths.ReportXLSX, ".xlsx"); err != nil {
			return err
		}
	}

	svc, err := services.NewAnalysisService(cfg, nil, logger)
	if err != nil {
		return err
	}

	ranking, rankErr := svc.Rank(ctx)
	if rankErr != nil && !errors.Is(rankErr, analysis.ErrNothingToRank) {
		return rankErr
	}

	if err := exporter.WriteConsoleReport(stdout, ranking); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	// The skipped list is printed before failing on an empty ranking
	if rankErr != nil {
		return rankErr
	}

	if cfg.Paths.ReportXLSX != "" {
		path, err := filepath.Abs(cfg.Paths.ReportXLSX)
		if err != nil {
			return fmt.Errorf("resolve report path: %w", err)
		}
		if err := exporter.SaveRankingXLSX(path, ranking); err != nil {
			return fmt.Errorf("write xlsx report: %w", err)
		}
		logger.InfoContext(ctx, "Ranking workbook written", slog.String("path", path))
	}

	return nil
}
