package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lucentbi/ui-gateway/internal/backend"
	"github.com/lucentbi/ui-gateway/internal/service"
)

// RefreshOrchestrator is the refresh surface the auth endpoints need.
type RefreshOrchestrator interface {
	Refresh(ctx context.Context, refreshToken string) service.RefreshResult
}

// AuthHandlers provides the token-endpoint side of the gateway: check,
// login, logout, refresh, and the SSO exchange pair. Each handler is a thin
// policy (backend path, credential to forward, cookie relay) applied
// through the bounded backend call.
type AuthHandlers struct {
	Backend      service.BackendCaller
	Refresh      RefreshOrchestrator
	Timeout      time.Duration
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Check handles the session check endpoint.
// GET /api/auth/check.
//
// With an access token the check is proxied to the backend verbatim. With
// only a refresh token the gateway renews the session inline and relays the
// fresh cookie bundle. With neither it answers 401 without an outbound call.
func (h *AuthHandlers) Check(w http.ResponseWriter, r *http.Request) {
	tokens := TokensFromRequest(r)

	switch {
	case tokens.HasAccess():
		res := h.Backend.Call(r.Context(), backend.CallParams{
			Method:  http.MethodGet,
			Path:    "/auth/check",
			Cookies: []*http.Cookie{{Name: AccessTokenCookie, Value: tokens.Access}},
			Timeout: h.Timeout,
		})
		h.relay(w, res, false)

	case tokens.HasRefresh():
		res := h.Refresh.Refresh(r.Context(), tokens.Refresh)
		switch {
		case res.Succeeded():
			attachCookieBundle(w, res.Cookies)
			WriteJSON(w, http.StatusOK, map[string]any{"authenticated": true, "refreshed": true})
		case res.Outcome == backend.OutcomeTimeout:
			h.writeTimeout(w)
		case res.Outcome == backend.OutcomeTransport:
			h.writeTransport(w, nil)
		default:
			// Backend answered but refused to renew: the session is gone.
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: errCodeMissingCredential,
				Err:     errors.New("session could not be renewed"),
			})
		}

	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: errCodeMissingCredential,
			Err:     errors.New("no session tokens present"),
		})
	}
}

// Login handles the login proxy endpoint.
// POST /api/auth/login.
//
// The credential payload is forwarded untouched; the backend's status,
// body, and full Set-Cookie bundle are relayed back.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_body", Err: err})
		return
	}

	res := h.Backend.Call(r.Context(), backend.CallParams{
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Body:        body,
		ContentType: contentTypeOrJSON(r),
		Timeout:     h.Timeout,
	})
	h.relay(w, res, true)
}

// Logout handles the logout endpoint.
// POST /api/auth/logout.
//
// Both session cookies are cleared on the outgoing response regardless of
// what the backend says; its status is degraded to a best-effort secondary
// signal as long as the call itself completed.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, r, AccessTokenCookie)
	h.clearCookie(w, r, RefreshTokenCookie)

	tokens := TokensFromRequest(r)
	var cookies []*http.Cookie
	if tokens.HasAccess() {
		cookies = append(cookies, &http.Cookie{Name: AccessTokenCookie, Value: tokens.Access})
	}

	res := h.Backend.Call(r.Context(), backend.CallParams{
		Method:  http.MethodPost,
		Path:    "/auth/logout",
		Cookies: cookies,
		Timeout: h.Timeout,
	})

	switch res.Outcome {
	case backend.OutcomeOK:
		if !res.OK() {
			h.logger().InfoContext(r.Context(), "backend logout degraded",
				slog.Int("backend_status", res.Status))
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":         "success",
			"backend_status": res.Status,
		})
	case backend.OutcomeTimeout:
		h.writeTimeout(w)
	default:
		h.writeTransport(w, res.Err)
	}
}

// RefreshToken handles the explicit client-initiated refresh endpoint.
// POST /api/auth/refresh.
func (h *AuthHandlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshCookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || refreshCookie.Value == "" {
		// Required credential syntactically absent: short-circuit, no outbound call.
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: errCodeMissingCredential,
			Err:     errors.New("refresh token cookie is required"),
		})
		return
	}

	res := h.Refresh.Refresh(r.Context(), refreshCookie.Value)
	switch res.Outcome {
	case backend.OutcomeOK:
		if res.Succeeded() {
			attachCookieBundle(w, res.Cookies)
		}
		RelayBody(w, res.Status, "", res.Body)
	case backend.OutcomeTimeout:
		h.writeTimeout(w)
	default:
		h.writeTransport(w, nil)
	}
}

// ssoCallbackRequest is the inbound payload of the SSO exchange.
type ssoCallbackRequest struct {
	AuthorizationCode string `json:"authorization_code"`
	Signature         string `json:"signature,omitempty"`
}

// SSOCallback handles the SSO code exchange endpoint.
// POST /api/auth/sso/callback.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	var req ssoCallbackRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.AuthorizationCode == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: errCodeMissingParameter,
			Err:     errors.New("authorization code is required"),
		})
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "encode_failed", Err: err})
		return
	}

	res := h.Backend.Call(r.Context(), backend.CallParams{
		Method:      http.MethodPost,
		Path:        "/auth/sso/callback",
		Body:        payload,
		ContentType: "application/json",
		Timeout:     h.Timeout,
	})
	h.relay(w, res, true)
}

// SSORedirect proxies the provider redirect lookup.
// GET /api/auth/sso/redirect.
func (h *AuthHandlers) SSORedirect(w http.ResponseWriter, r *http.Request) {
	res := h.Backend.Call(r.Context(), backend.CallParams{
		Method:  http.MethodGet,
		Path:    "/auth/sso/redirect",
		Query:   r.URL.Query(),
		Timeout: h.Timeout,
	})
	h.relay(w, res, false)
}

// relay terminates a backend call result per the shared endpoint contract:
// OK relays status/body verbatim (optionally with the cookie bundle),
// timeout yields the fixed 504 message, everything else a 500 envelope.
func (h *AuthHandlers) relay(w http.ResponseWriter, res backend.Result, relayCookies bool) {
	switch res.Outcome {
	case backend.OutcomeOK:
		if relayCookies {
			attachCookieBundle(w, res.Cookies)
		}
		RelayBody(w, res.Status, res.ContentType, res.Body)
	case backend.OutcomeTimeout:
		h.writeTimeout(w)
	default:
		h.writeTransport(w, res.Err)
	}
}

func (h *AuthHandlers) writeTimeout(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusGatewayTimeout,
		ErrCode: errCodeBackendTimeout,
		Err:     errors.New(timeoutMessage),
	})
}

func (h *AuthHandlers) writeTransport(w http.ResponseWriter, cause error) {
	if cause == nil {
		cause = errors.New("backend request failed")
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: errCodeBackendFailure,
		Err:     cause,
	})
}

// attachCookieBundle adds every backend Set-Cookie value unmodified to the
// outgoing response. Attributes are backend-authoritative.
func attachCookieBundle(w http.ResponseWriter, bundle []string) {
	for _, value := range bundle {
		w.Header().Add("Set-Cookie", value)
	}
}

// clearCookie clears a cookie by setting it to expire immediately.
// Clearing is the one cookie write the gateway owns; key attributes
// (Secure, Path, Domain, SameSite) mirror the deployment configuration to
// maximize deletion compatibility across browsers.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func contentTypeOrJSON(r *http.Request) string {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/json"
}
