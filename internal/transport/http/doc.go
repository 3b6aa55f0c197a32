// Package http implements the HTTP handlers of the dashboard. Handlers are a
// thin layer over services.AnalysisService: they parse the request, call the
// service and format the response.
//
// # Routes
//
//	GET  /                                        HTML dashboard (?company=)
//	GET  /static/*                                embedded page assets
//	GET  /api/companies                           distinct companies
//	GET  /api/companies/{company}/information-gain
//	GET  /api/companies/{company}/chart.png
//	GET  /api/ranking
//	GET  /api/export/ranking.xlsx
//	GET  /api/export/ranking.csv
//	GET  /api/dataset/stats
//	POST /api/dataset/reload
//	POST /api/client-log                          errors reported by the page
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//
// JSON responses are wrapped as {"status":"success","data":...}.
//
// # Error Handling
//
// Service errors are mapped to API errors and written as RFC 7807 problems by
// errors.ErrorHandler:
//
//	unknown company        404 COMPANY_NOT_FOUND
//	empty cleaned subset   422 EMPTY_SUBSET
//	nothing to rank        422 NOTHING_TO_RANK
//	dataset missing        503 DATASET_UNAVAILABLE
//	malformed dataset      503 /errors/dataset/corrupted
//	invalid company        400 VALIDATION_FAILED
//
// The dashboard renders the same failures as an error banner with the same
// status code.
package http
