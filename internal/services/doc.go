// Package services is the library both front ends call. AnalysisService
// owns the dataset cache and the analyzer and exposes company listing,
// per-company scores, the ranking, charts, exports and cache control.
// HealthService reports liveness, readiness and version information.
//
// Services take a context on every operation and return sentinel errors from
// this package or from internal/analysis; callers branch with errors.Is:
//
//	result, err := svc.Analyze(ctx, "Tata")
//	switch {
//	case errors.Is(err, analysis.ErrUnknownCompany):
//	    // 404
//	case errors.Is(err, analysis.ErrEmptySubset):
//	    // 422
//	case errors.Is(err, services.ErrDatasetUnavailable):
//	    // 503
//	}
package services
