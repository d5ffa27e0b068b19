// Package service contains the orchestration layer between the HTTP surface
// and the backend client.
package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lucentbi/ui-gateway/internal/backend"
	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
)

// BackendCaller is the subset of the backend client the orchestrator needs.
type BackendCaller interface {
	Call(ctx context.Context, p backend.CallParams) backend.Result
}

// RefreshServiceOptions groups dependencies for RefreshService.
type RefreshServiceOptions struct {
	Backend BackendCaller
	// Timeout bounds each refresh call; the same deadline discipline as
	// sibling backend calls.
	Timeout time.Duration
	Logger  *slog.Logger
}

// RefreshService encapsulates the token refresh exchange: forward a refresh
// token to the backend as a cookie, yield either a fresh cookie bundle or a
// failure. It is shared by the edge gatekeeper and the dedicated refresh
// endpoint.
type RefreshService struct {
	backend BackendCaller
	timeout time.Duration
	logger  *slog.Logger
}

// NewRefreshService constructs a new RefreshService.
func NewRefreshService(opts RefreshServiceOptions) *RefreshService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshService{
		backend: opts.Backend,
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// RefreshResult is the outcome of one refresh attempt. Status and Body are
// the backend's verbatim response so the refresh endpoint can relay them.
type RefreshResult struct {
	Outcome backend.Outcome
	Status  int
	Body    []byte
	Cookies domainauth.CookieBundle
}

// Succeeded reports whether the backend issued a usable cookie bundle:
// a 2xx response carrying at least one Set-Cookie header.
func (r RefreshResult) Succeeded() bool {
	return r.Outcome == backend.OutcomeOK &&
		r.Status >= 200 && r.Status < 300 &&
		len(r.Cookies) > 0
}

// Refresh issues a single backend refresh call forwarding the refresh token
// as a cookie. It never retries; the caller owns any retry policy (and the
// gatekeeper forbids one within a request pass).
func (s *RefreshService) Refresh(ctx context.Context, refreshToken string) RefreshResult {
	res := s.backend.Call(ctx, backend.CallParams{
		Method:  http.MethodPost,
		Path:    "/auth/refresh",
		Cookies: []*http.Cookie{{Name: "refresh_token", Value: refreshToken}},
		Timeout: s.timeout,
	})

	result := RefreshResult{
		Outcome: res.Outcome,
		Status:  res.Status,
		Body:    res.Body,
		Cookies: domainauth.CookieBundle(res.Cookies),
	}
	if !result.Succeeded() {
		s.logger.Info("token refresh failed",
			slog.String("outcome", string(res.Outcome)),
			slog.Int("status", res.Status),
			slog.Int("cookies", len(res.Cookies)),
		)
	}
	return result
}

// GateRefreshFunc adapts the orchestrator to the domain gate state machine.
// The returned function performs at most one backend call per invocation.
func (s *RefreshService) GateRefreshFunc(ctx context.Context) domainauth.RefreshFunc {
	return func(refreshToken string) domainauth.RefreshOutcome {
		res := s.Refresh(ctx, refreshToken)
		return domainauth.RefreshOutcome{
			Succeeded: res.Succeeded(),
			Cookies:   res.Cookies,
		}
	}
}
