package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucentbi/ui-gateway/internal/backend"
)

// fakeBackend is a test double for BackendCaller.
type fakeBackend struct {
	lastParams backend.CallParams
	result     backend.Result
	calls      int
}

func (f *fakeBackend) Call(_ context.Context, p backend.CallParams) backend.Result {
	f.calls++
	f.lastParams = p
	return f.result
}

func TestRefreshForwardsTokenAsCookieWithDeadline(t *testing.T) {
	fb := &fakeBackend{result: backend.Result{
		Outcome: backend.OutcomeOK,
		Status:  http.StatusOK,
		Cookies: []string{"access_token=a2; Path=/"},
	}}
	svc := NewRefreshService(RefreshServiceOptions{Backend: fb, Timeout: 8 * time.Second})

	res := svc.Refresh(context.Background(), "r1")

	assert.True(t, res.Succeeded())
	assert.Equal(t, http.MethodPost, fb.lastParams.Method)
	assert.Equal(t, "/auth/refresh", fb.lastParams.Path)
	assert.Equal(t, 8*time.Second, fb.lastParams.Timeout)
	require.Len(t, fb.lastParams.Cookies, 1)
	assert.Equal(t, "refresh_token", fb.lastParams.Cookies[0].Name)
	assert.Equal(t, "r1", fb.lastParams.Cookies[0].Value)
}

func TestRefreshSucceededRequiresCookieBundle(t *testing.T) {
	// 2xx without a usable Set-Cookie header is still a failure.
	fb := &fakeBackend{result: backend.Result{Outcome: backend.OutcomeOK, Status: http.StatusOK}}
	svc := NewRefreshService(RefreshServiceOptions{Backend: fb, Timeout: time.Second})

	res := svc.Refresh(context.Background(), "r1")
	assert.False(t, res.Succeeded())
}

func TestRefreshNonSuccessStatusFails(t *testing.T) {
	fb := &fakeBackend{result: backend.Result{
		Outcome: backend.OutcomeOK,
		Status:  http.StatusUnauthorized,
		Body:    []byte(`{"error":"invalid_refresh_token"}`),
		Cookies: []string{"access_token=stale"},
	}}
	svc := NewRefreshService(RefreshServiceOptions{Backend: fb, Timeout: time.Second})

	res := svc.Refresh(context.Background(), "r1")
	assert.False(t, res.Succeeded())
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.JSONEq(t, `{"error":"invalid_refresh_token"}`, string(res.Body))
}

func TestRefreshTransportFailureFails(t *testing.T) {
	fb := &fakeBackend{result: backend.Result{
		Outcome: backend.OutcomeTransport,
		Err:     errors.New("connection refused"),
	}}
	svc := NewRefreshService(RefreshServiceOptions{Backend: fb, Timeout: time.Second})

	res := svc.Refresh(context.Background(), "r1")
	assert.False(t, res.Succeeded())
}

func TestGateRefreshFuncSingleCall(t *testing.T) {
	bundle := []string{"access_token=a2; Path=/", "refresh_token=r2; Path=/"}
	fb := &fakeBackend{result: backend.Result{
		Outcome: backend.OutcomeOK,
		Status:  http.StatusOK,
		Cookies: bundle,
	}}
	svc := NewRefreshService(RefreshServiceOptions{Backend: fb, Timeout: time.Second})

	outcome := svc.GateRefreshFunc(context.Background())("r1")

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, bundle, []string(outcome.Cookies))
	assert.Equal(t, 1, fb.calls)
}
