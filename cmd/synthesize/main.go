// Command synthesize writes the synthetic monthly stock dataset to the
// configured CSV file (and optionally an XLSX copy).
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"stockig/internal/config"
	"stockig/internal/dataset"
	"stockig/internal/infrastructure"
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
	logger = infrastructure.WithComponent(logger, "synthesize")

	if err := synthesize(ctx, cfg, logger, stdout); err != nil {
		logger.ErrorContext(ctx, "Synthesis failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// synthesize generates the dataset and writes it where cfg points
func synthesize(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputFile(cfg.DatasetPath(), ".csv"); err != nil {
		return err
	}
	if cfg.Paths.DatasetXLSX != "" {
		if err := validator.ValidateOutputFile(cfg.Paths.DatasetXLSX, ".xlsx"); err != nil {
			return err
		}
	}

	opts := dataset.DefaultSynthOptions()
	opts.Seed = cfg.Synth.Seed
	opts.StartYear = cfg.Synth.StartYear
	opts.EndYear = cfg.Synth.EndYear

	synth, err := dataset.NewSynthesizer(opts, logger)
	if err != nil {
		return err
	}
	ds := synth.Generate()

	path := cfg.DatasetPath()
	if err := dataset.WriteFile(path, ds); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	logger.InfoContext(ctx, "Dataset written",
		slog.String("path", path),
		slog.Int("rows", ds.Len()))

	if cfg.Paths.DatasetXLSX != "" {
		xlsxPath, err := filepath.Abs(cfg.Paths.DatasetXLSX)
		if err != nil {
			return fmt.Errorf("resolve xlsx path: %w", err)
		}
		if err := dataset.WriteXLSX(xlsxPath, ds); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		logger.InfoContext(ctx, "Dataset workbook written", slog.String("path", xlsxPath))
		fmt.Fprintf(stdout, "XLSX file created: %s\n", cfg.Paths.DatasetXLSX)
	}

	fmt.Fprintf(stdout, "CSV file created: %s\n", cfg.Paths.DatasetFile)
	fmt.Fprintf(stdout, "Total rows: %d\n", ds.Len())
	return nil
}
