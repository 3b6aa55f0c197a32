package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stockig/internal/analysis"
	apierrors "stockig/internal/errors"
	"stockig/internal/services"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"score": func(f float64) string { return fmt.Sprintf("%.4f", f) },
	"join":  strings.Join,
}).ParseFS(templateFS, "templates/dashboard.html"))

// dashboardPage is the data rendered by templates/dashboard.html
type dashboardPage struct {
	Companies []string
	Selected  string
	Result    *analysis.Result
	ChartURL  string
	Stats     *services.DatasetStats
	Error     string
}

// DashboardHandler renders the HTML dashboard
type DashboardHandler struct {
	service AnalysisServiceInterface
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service AnalysisServiceInterface, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Routes returns the page and its static assets
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	return r
}

// ServeDashboard handles GET /?company=
func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := dashboardPage{}

	companies, err := h.service.Companies(ctx)
	if err != nil {
		h.renderError(w, r, &page, err)
		return
	}
	page.Companies = companies

	if stats, err := h.service.Stats(ctx); err == nil {
		page.Stats = &stats
	}

	selected := r.URL.Query().Get("company")
	switch {
	case selected == "" && len(companies) > 0:
		selected = companies[0]
	case selected == "":
		h.renderError(w, r, &page, analysis.ErrNothingToRank)
		return
	case !slices.Contains(companies, selected):
		if len(companies) > 0 {
			page.Selected = companies[0]
		}
		h.renderError(w, r, &page, analysis.ErrUnknownCompany, selected)
		return
	}
	page.Selected = selected

	result, err := h.service.Analyze(ctx, selected)
	if err != nil {
		h.renderError(w, r, &page, err, selected)
		return
	}
	page.Result = result
	page.ChartURL = "/api/companies/" + url.PathEscape(selected) + "/chart.png"

	h.render(w, r, http.StatusOK, &page)
}

// renderError shows the failure as a banner on the page, with the status the
// JSON API would use
func (h *DashboardHandler) renderError(w http.ResponseWriter, r *http.Request, page *dashboardPage, err error, company ...string) {
	name := ""
	if len(company) > 0 {
		name = company[0]
	}

	mapped := mapServiceError(err, name)
	status := statusOf(mapped)

	var apiErr *apierrors.APIError
	switch {
	case errors.As(mapped, &apiErr):
		page.Error = apiErr.Message
	case errors.Is(err, services.ErrDatasetUnavailable):
		page.Error = "Dataset could not be loaded: " + err.Error()
	default:
		page.Error = err.Error()
	}

	h.logger.WarnContext(r.Context(), "dashboard rendered with error",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("company", name),
		slog.Int("status", status),
		slog.String("error", err.Error()))

	h.render(w, r, status, page)
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, page *dashboardPage) {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard template failed",
			slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
