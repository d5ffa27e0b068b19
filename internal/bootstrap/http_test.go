package bootstrap

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
	httpx "github.com/lucentbi/ui-gateway/internal/http"
)

func TestBuildHTTPHandlerServesHealthThroughMiddleware(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	handler := buildHTTPHandler(logger, httpx.RouterServices{
		Classifier: domainauth.NewClassifier([]string{"/login"}),
		LoginPath:  "/login",
		Logger:     logger,
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBuildHTTPHandlerLogsRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := buildHTTPHandler(logger, httpx.RouterServices{
		Classifier: domainauth.NewClassifier([]string{"/login"}),
		LoginPath:  "/login",
		Logger:     logger,
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-Id"))
	// The access log must carry the same ID the client sent.
	assert.Contains(t, logs.String(), `"request_id":"req-abc-123"`)
}

func TestBuildHTTPHandlerRedirectsProtectedPages(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	handler := buildHTTPHandler(logger, httpx.RouterServices{
		Classifier: domainauth.NewClassifier([]string{"/login"}),
		LoginPath:  "/login",
		Logger:     logger,
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("garbage"))
}
