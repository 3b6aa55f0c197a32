// Package app wires the dashboard: it builds the analysis and health services
// from configuration, assembles the chi router with its middleware chain and
// runs the HTTP server until SIGINT or SIGTERM.
//
// # Initialization Flow
//
//	1. cmd/dashboard loads configuration and initializes the logger
//	2. NewApplication initializes OpenTelemetry and business metrics
//	3. AnalysisService and HealthService are created over the dataset file
//	4. Handlers are mounted behind RequestID, RealIP, OTel, StructuredLogger,
//	   Recoverer, SecurityHeaders and the rate limiter
//	5. Run starts the server and, when dashboard.open_browser is set, opens the
//	   browser once /api/health answers
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Error Handling
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit. A dataset that cannot be loaded is not an initialization error: the
// server starts and reports it through /api/health/ready and the page banner.
package app
