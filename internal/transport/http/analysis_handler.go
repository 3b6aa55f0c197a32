package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "stockig/internal/errors"
)

// maxCompanyLen bounds the {company} path parameter
const maxCompanyLen = 64

const (
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// AnalysisHandler serves the information-gain JSON API
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes. Mount it under /api.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/companies", h.GetCompanies)
	r.Route("/companies/{company}", func(r chi.Router) {
		r.Use(h.CompanyCtx)
		r.Get("/information-gain", h.GetInformationGain)
		r.Get("/chart.png", h.GetChart)
	})

	r.Get("/ranking", h.GetRanking)

	r.Route("/export", func(r chi.Router) {
		r.Get("/ranking.xlsx", h.ExportRankingXLSX)
		r.Get("/ranking.csv", h.ExportRankingCSV)
	})

	r.Route("/dataset", func(r chi.Router) {
		r.Get("/stats", h.GetDatasetStats)
		r.Post("/reload", h.ReloadDataset)
	})

	return r
}

// CompanyCtx validates the company path parameter
func (h *AnalysisHandler) CompanyCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		company := chi.URLParam(r, "company")
		if company == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("company", "Company is required"))
			return
		}
		if len(company) > maxCompanyLen {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("company", "Company must be 1 to 64 characters"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetCompanies handles GET /api/companies
func (h *AnalysisHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.Companies(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   companies,
		"count":  len(companies),
	})
}

// GetInformationGain handles GET /api/companies/{company}/information-gain
func (h *AnalysisHandler) GetInformationGain(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	result, err := h.service.Analyze(r.Context(), company)
	if err != nil {
		h.fail(w, r, err, company)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// GetChart handles GET /api/companies/{company}/chart.png
func (h *AnalysisHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	var buf bytes.Buffer
	if err := h.service.WriteChart(r.Context(), company, &buf); err != nil {
		h.fail(w, r, err, company)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeBody(w, contentTypePNG, "", buf.Bytes())
}

// GetRanking handles GET /api/ranking
func (h *AnalysisHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.service.Rank(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ranking,
	})
}

// ExportRankingXLSX handles GET /api/export/ranking.xlsx
func (h *AnalysisHandler) ExportRankingXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportRankingXLSX(r.Context(), &buf); err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeBody(w, contentTypeXLSX, "information_gain_ranking.xlsx", buf.Bytes())
}

// ExportRankingCSV handles GET /api/export/ranking.csv
func (h *AnalysisHandler) ExportRankingCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportRankingCSV(r.Context(), &buf); err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeBody(w, contentTypeCSV, "information_gain_ranking.csv", buf.Bytes())
}

// GetDatasetStats handles GET /api/dataset/stats
func (h *AnalysisHandler) GetDatasetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

// ReloadDataset handles POST /api/dataset/reload
func (h *AnalysisHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	stats, err := h.service.Reload(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

// fail logs a failed call and writes the mapped problem response
func (h *AnalysisHandler) fail(w http.ResponseWriter, r *http.Request, err error, company string) {
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
	}
	if company != "" {
		attrs = append(attrs, slog.String("company", company))
	}

	mapped := mapServiceError(err, company)
	if statusOf(mapped) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "analysis request failed", attrs...)
	} else {
		h.logger.WarnContext(r.Context(), "analysis request rejected", attrs...)
	}

	h.errorHandler.HandleError(w, r, mapped)
}

// writeBody writes a binary payload, as an attachment when filename is set
func writeBody(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
