// Package config provides centralized configuration management for the stockig
// tools. It loads configuration from multiple sources, validates it, and exposes a
// type-safe struct shared by the synthesizer, the console ranking tool and the
// dashboard.
//
// # Configuration Sources
//
// Configuration is assembled in the following order, later sources winning:
//
//	1. Default() values
//	2. YAML file (STOCKIG_CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. Environment variables, after loading an optional .env file
//
// # Environment Variables
//
// All environment variables follow the pattern STOCKIG_<SECTION>_<FIELD>:
//
//	STOCKIG_SERVER_PORT=8501
//	STOCKIG_PATHS_DATASET_FILE=stock_market_dataset.csv
//	STOCKIG_ANALYSIS_BINS=4
//	STOCKIG_SYNTH_SEED=42
//	STOCKIG_LOGGING_LEVEL=debug
//
// # Validation
//
// Validate runs go-playground/validator over the struct tags, so an out of range
// port, a bin count below one or an inverted year range fail at load time.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    slog.Error("failed to load configuration", "error", err)
//	    os.Exit(1)
//	}
package config
