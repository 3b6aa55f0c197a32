package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockig/internal/analysis"
	"stockig/internal/dataset"
	apierrors "stockig/internal/errors"
	"stockig/internal/services"
	"stockig/internal/shared/testutil"
)

func newAnalysisRouter(t *testing.T, svc *MockAnalysisService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	handler := NewAnalysisHandler(svc, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api", handler.Routes())
	return r
}

func TestAnalysisHandler_GetInformationGain(t *testing.T) {
	emptySubset := &analysis.PreconditionError{Company: "Adani", Rows: 12, Dropped: 12, Err: analysis.ErrEmptySubset}
	unknown := &analysis.PreconditionError{Company: "Infosys", Err: analysis.ErrUnknownCompany}

	tests := []struct {
		name           string
		company        string
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:    "scores company",
			company: "Tata",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "Tata").Return(sampleResult("Tata"), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"status":"success"`, `"best_feature":"AveragePrice"`, `"strategy":"equal_width"`, `"dropped_rows":2`},
		},
		{
			name:    "unknown company",
			company: "Infosys",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "Infosys").Return(nil, unknown)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   []string{`"COMPANY_NOT_FOUND"`, `/errors/company/not-found`},
		},
		{
			name:    "empty subset",
			company: "Adani",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "Adani").Return(nil, emptySubset)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   []string{`"EMPTY_SUBSET"`, `"dropped_rows":12`},
		},
		{
			name:    "dataset missing",
			company: "Tata",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "Tata").Return(nil, fmt.Errorf("%w: %w", services.ErrDatasetUnavailable, fs.ErrNotExist))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   []string{`"DATASET_UNAVAILABLE"`},
		},
		{
			name:    "dataset malformed",
			company: "Tata",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "Tata").Return(nil, fmt.Errorf("%w: %w", services.ErrDatasetUnavailable, dataset.ErrMissingColumn))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   []string{`/errors/dataset/corrupted`},
		},
		{
			name:           "company too long",
			company:        strings.Repeat("x", maxCompanyLen+1),
			setupMock:      func(m *MockAnalysisService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{`"VALIDATION_FAILED"`},
		},
		{
			name:    "unexpected error",
			company: "Tata",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", "Tata").Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`/errors/internal`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			tt.setupMock(svc)
			router := newAnalysisRouter(t, svc)

			req := httptest.NewRequest(http.MethodGet, "/api/companies/"+tt.company+"/information-gain", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, want := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), want)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_GetCompanies(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Companies").Return([]string{"Tata", "Reliance", "Adani"}, nil)
	router := newAnalysisRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/companies", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string   `json:"status"`
		Data   []string `json:"data"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, []string{"Tata", "Reliance", "Adani"}, body.Data)
	assert.Equal(t, 3, body.Count)
}

func TestAnalysisHandler_GetRanking(t *testing.T) {
	t.Run("ranked", func(t *testing.T) {
		tata, adani := sampleResult("Tata"), sampleResult("Adani")
		adani.Mean = 0.01
		svc := new(MockAnalysisService)
		svc.On("Rank").Return(&analysis.Ranking{
			Results: []*analysis.Result{tata, adani},
			Best:    tata,
			Skipped: []analysis.SkippedCompany{{Company: "Reliance", Reason: "no usable rows after cleaning", Dropped: 180}},
		}, nil)

		w := httptest.NewRecorder()
		newAnalysisRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ranking", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"best":{"company":"Tata"`)
		assert.Contains(t, w.Body.String(), `"skipped":[{"company":"Reliance"`)
	})

	t.Run("nothing to rank", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Rank").Return(&analysis.Ranking{}, analysis.ErrNothingToRank)

		w := httptest.NewRecorder()
		newAnalysisRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ranking", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "NOTHING_TO_RANK")
	})
}

func TestAnalysisHandler_BinaryEndpoints(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		setupMock   func(*MockAnalysisService)
		contentType string
		disposition string
		prefix      string
	}{
		{
			name: "chart",
			path: "/api/companies/Tata/chart.png",
			setupMock: func(m *MockAnalysisService) {
				m.On("WriteChart", "Tata").Return(nil, "\x89PNG")
			},
			contentType: contentTypePNG,
			prefix:      "\x89PNG",
		},
		{
			name:        "xlsx export",
			path:        "/api/export/ranking.xlsx",
			setupMock:   func(m *MockAnalysisService) { m.On("ExportRankingXLSX").Return(nil) },
			contentType: contentTypeXLSX,
			disposition: "information_gain_ranking.xlsx",
			prefix:      "PK",
		},
		{
			name:        "csv export",
			path:        "/api/export/ranking.csv",
			setupMock:   func(m *MockAnalysisService) { m.On("ExportRankingCSV").Return(nil) },
			contentType: contentTypeCSV,
			disposition: "information_gain_ranking.csv",
			prefix:      "\xef\xbb\xbfCompany",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newAnalysisRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(w.Body.String(), tt.prefix))
			if tt.disposition != "" {
				assert.Contains(t, w.Header().Get("Content-Disposition"), tt.disposition)
			}
		})
	}
}

func TestAnalysisHandler_ChartErrorIsProblem(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("WriteChart", "Nobody").Return(analysis.ErrUnknownCompany, "")

	w := httptest.NewRecorder()
	newAnalysisRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/companies/Nobody/chart.png", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEqual(t, contentTypePNG, w.Header().Get("Content-Type"))
}

func TestAnalysisHandler_Dataset(t *testing.T) {
	stats := services.DatasetStats{
		Path:             "/data/stock_market_dataset.csv",
		Rows:             540,
		Companies:        []string{"Tata", "Reliance", "Adani"},
		CoercionFailures: 3,
		FailuresByColumn: map[string]int{"Volume": 3},
		Cache:            dataset.CacheStats{Entries: 1, Hits: 4, Misses: 2, Reloads: 1},
	}

	svc := new(MockAnalysisService)
	svc.On("Stats").Return(stats, nil)
	svc.On("Reload").Return(stats, nil)
	router := newAnalysisRouter(t, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dataset/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"coercion_failures":3`)
	assert.Contains(t, w.Body.String(), `"reloads":1`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dataset/reload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	svc.AssertNumberOfCalls(t, "Reload", 1)
	svc.AssertCalled(t, "Stats")
	svc.AssertNotCalled(t, "Analyze", mock.Anything)
}
