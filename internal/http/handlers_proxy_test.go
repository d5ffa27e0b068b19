package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucentbi/ui-gateway/internal/backend"
)

func newProxyMux(b *stubBackend) *http.ServeMux {
	mux := http.NewServeMux()
	h := &ProxyHandlers{
		Backend:      b,
		DataTimeout:  8 * time.Second,
		AdminTimeout: 10 * time.Second,
	}
	h.Register(mux)
	return mux
}

func TestProxyMissingAuthorizationShortCircuits401(t *testing.T) {
	b := &stubBackend{}
	mux := newProxyMux(b)

	req := httptest.NewRequest(http.MethodGet, "/api/charts", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, b.calls, "no outbound call without the Authorization header")
}

func TestProxyRelaysStatusAndBodyVerbatim(t *testing.T) {
	b := &stubBackend{result: backend.Result{
		Outcome:     backend.OutcomeOK,
		Status:      http.StatusOK,
		Body:        []byte(`[{"id":1,"name":"revenue"}]`),
		ContentType: "application/json",
	}}
	mux := newProxyMux(b)

	req := httptest.NewRequest(http.MethodGet, "/api/charts?page=2", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"revenue"}]`, w.Body.String())
	assert.Equal(t, "/charts", b.lastParams.Path)
	assert.Equal(t, "Bearer abc", b.lastParams.Authorization)
	assert.Equal(t, "2", b.lastParams.Query.Get("page"))
}

func TestProxyDeadlineTiers(t *testing.T) {
	tests := []struct {
		method  string
		path    string
		timeout time.Duration
	}{
		{http.MethodGet, "/api/charts", 8 * time.Second},
		{http.MethodGet, "/api/datasets", 8 * time.Second},
		{http.MethodGet, "/api/database/schemas", 8 * time.Second},
		{http.MethodGet, "/api/database/tables", 8 * time.Second},
		{http.MethodGet, "/api/database/columns", 8 * time.Second},
		{http.MethodGet, "/api/dashboard", 10 * time.Second},
		{http.MethodDelete, "/api/comment/42", 10 * time.Second},
	}

	for _, tt := range tests {
		b := &stubBackend{result: backend.Result{Outcome: backend.OutcomeOK, Status: http.StatusOK}}
		mux := newProxyMux(b)

		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("Authorization", "Bearer abc")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		require.Equal(t, 1, b.calls, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.timeout, b.lastParams.Timeout, "%s %s", tt.method, tt.path)
	}
}

func TestProxyCommentDeleteMapsPathParameter(t *testing.T) {
	b := &stubBackend{result: backend.Result{Outcome: backend.OutcomeOK, Status: http.StatusNoContent}}
	mux := newProxyMux(b)

	req := httptest.NewRequest(http.MethodDelete, "/api/comment/42", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/comment/42", b.lastParams.Path)
}

func TestProxyTimeoutYields504FixedMessage(t *testing.T) {
	b := &stubBackend{result: backend.Result{Outcome: backend.OutcomeTimeout}}
	mux := newProxyMux(b)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Request timed out. The server took too long to respond.", body["message"])
}

func TestProxyUpstreamErrorRelayedNotMasked(t *testing.T) {
	b := &stubBackend{result: backend.Result{
		Outcome: backend.OutcomeOK,
		Status:  http.StatusForbidden,
		Body:    []byte(`{"error":"forbidden"}`),
	}}
	mux := newProxyMux(b)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, w.Body.String())
}

func TestProxyForwardsRequestBody(t *testing.T) {
	b := &stubBackend{result: backend.Result{Outcome: backend.OutcomeOK, Status: http.StatusCreated}}
	mux := newProxyMux(b)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", nil)
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("Content-Type", "application/json")
	req.Body = http.NoBody
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", b.lastParams.ContentType)
}
