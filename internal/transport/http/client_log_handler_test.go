package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "stockig/internal/errors"
	"stockig/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  slog.Level
		expectedMsg    string
	}{
		{
			name:           "error entry",
			body:           `{"level":"error","message":"chart failed","source":"dashboard","data":{"line":12}}`,
			expectedStatus: http.StatusAccepted,
			expectedLevel:  slog.LevelError,
			expectedMsg:    "chart failed",
		},
		{
			name:           "warn entry",
			body:           `{"level":"warn","message":"slow render"}`,
			expectedStatus: http.StatusAccepted,
			expectedLevel:  slog.LevelWarn,
			expectedMsg:    "slow render",
		},
		{
			name:           "unknown level falls back to info",
			body:           `{"level":"fatal","message":"odd level"}`,
			expectedStatus: http.StatusAccepted,
			expectedLevel:  slog.LevelInfo,
			expectedMsg:    "odd level",
		},
		{
			name:           "invalid JSON",
			body:           `{"level":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing message",
			body:           `{"level":"info"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "oversized body",
			body:           `{"level":"info","message":"` + strings.Repeat("x", maxClientLogBytes) + `"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewClientLogHandler(logger, apierrors.NewErrorHandler(logger, false))

			req := httptest.NewRequest(http.MethodPost, "/api/client-log", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Handle(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusAccepted {
				assert.Contains(t, w.Header().Get("Content-Type"), "json")
				assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
				return
			}

			assert.Contains(t, w.Body.String(), `"success":true`)
			records := logs.GetRecordsByLevel(tt.expectedLevel)
			require.NotEmpty(t, records)
			assert.Equal(t, tt.expectedMsg, records[len(records)-1].Message)
		})
	}
}
