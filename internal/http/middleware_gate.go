package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
)

// TokenRefresher is the orchestrator surface the gatekeeper needs.
type TokenRefresher interface {
	GateRefreshFunc(ctx context.Context) domainauth.RefreshFunc
}

// GateMetrics receives gatekeeper counters. Implementations must be
// safe for concurrent use; a nil value disables metrics.
type GateMetrics interface {
	IncGateDecision(action string)
	IncRefresh(result string)
}

// GatekeeperConfig groups dependencies for Gatekeeper.
type GatekeeperConfig struct {
	Classifier *domainauth.Classifier
	Refresher  TokenRefresher
	LoginPath  string
	Metrics    GateMetrics
	Logger     *slog.Logger
}

// Gatekeeper intercepts every inbound page request and decides
// allow / allow-after-refresh / deny-redirect.
//
// The decision itself is the pure domain function; this middleware only
// extracts the request-scoped inputs (route class, cookies, the
// authorization_code bypass), wires the single refresh attempt, attaches
// returned cookie bundles verbatim, and issues the login redirect on denial.
// There is no shared mutable state across requests.
func Gatekeeper(cfg GatekeeperConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := cfg.Classifier.Classify(r.URL.Path)
			hasAuthCode := r.URL.Query().Has(AuthorizationCodeParam)
			tokens := TokensFromRequest(r)

			var refresh domainauth.RefreshFunc
			if cfg.Refresher != nil {
				inner := cfg.Refresher.GateRefreshFunc(r.Context())
				refresh = func(token string) domainauth.RefreshOutcome {
					outcome := inner(token)
					if cfg.Metrics != nil {
						if outcome.Succeeded {
							cfg.Metrics.IncRefresh("success")
						} else {
							cfg.Metrics.IncRefresh("failure")
						}
					}
					return outcome
				}
			}

			decision := domainauth.Decide(class, hasAuthCode, tokens, refresh)
			if cfg.Metrics != nil {
				cfg.Metrics.IncGateDecision(string(decision.Action))
			}

			switch decision.Action {
			case domainauth.GateAllowWithCookies:
				// Forward the backend's cookie bundle byte for byte so the
				// browser adopts the renewed tokens.
				for _, value := range decision.Cookies {
					w.Header().Add("Set-Cookie", value)
				}
				fallthrough
			case domainauth.GateAllow:
				ctx := SetTokensInContext(r.Context(), tokens)
				next.ServeHTTP(w, r.WithContext(ctx))
			case domainauth.GateRedirect:
				logger.Info("gatekeeper denied request",
					slog.String("path", r.URL.Path),
					slog.Bool("had_refresh_token", tokens.HasRefresh()),
				)
				http.Redirect(w, r, loginPath, http.StatusTemporaryRedirect)
			}
		})
	}
}
