package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lucentbi/ui-gateway/config"
	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
	"github.com/lucentbi/ui-gateway/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Backend    service.BackendCaller
	Refresh    *service.RefreshService
	Classifier *domainauth.Classifier

	LoginPath    string
	CookieDomain string

	AuthTimeout  time.Duration
	DataTimeout  time.Duration
	AdminTimeout time.Duration

	RateLimit config.RateLimitConfig

	// Metrics is optional; nil disables gatekeeper/backend counters.
	Metrics GateMetrics
	// MetricsHandler is the optional /metrics endpoint (promhttp).
	MetricsHandler http.Handler

	// Pages serves the application shell behind the gatekeeper.
	Pages http.Handler

	Logger *slog.Logger
}

// NewRouter creates and configures the gateway router: token endpoints and
// resource proxies under /api, liveness and metrics beside them, and the
// page surface wrapped by the edge gatekeeper.
func NewRouter(s RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Backend:      s.Backend,
		Refresh:      s.Refresh,
		Timeout:      s.AuthTimeout,
		CookieDomain: s.CookieDomain,
		Logger:       s.Logger,
	}
	limit := RateLimit(s.RateLimit)
	mux.Handle("GET /api/auth/check", limit(http.HandlerFunc(authHandlers.Check)))
	mux.Handle("POST /api/auth/login", limit(http.HandlerFunc(authHandlers.Login)))
	mux.Handle("POST /api/auth/logout", limit(http.HandlerFunc(authHandlers.Logout)))
	mux.Handle("POST /api/auth/refresh", limit(http.HandlerFunc(authHandlers.RefreshToken)))
	mux.Handle("POST /api/auth/sso/callback", limit(http.HandlerFunc(authHandlers.SSOCallback)))
	mux.Handle("GET /api/auth/sso/redirect", limit(http.HandlerFunc(authHandlers.SSORedirect)))

	proxyHandlers := &ProxyHandlers{
		Backend:      s.Backend,
		DataTimeout:  s.DataTimeout,
		AdminTimeout: s.AdminTimeout,
		Logger:       s.Logger,
	}
	proxyHandlers.Register(mux)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if s.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.MetricsHandler)
	}

	// Everything else is a page navigation and passes through the gatekeeper.
	pages := s.Pages
	if pages == nil {
		pages = http.NotFoundHandler()
	}
	var refresher TokenRefresher
	if s.Refresh != nil {
		refresher = s.Refresh
	}
	gate := Gatekeeper(GatekeeperConfig{
		Classifier: s.Classifier,
		Refresher:  refresher,
		LoginPath:  s.LoginPath,
		Metrics:    s.Metrics,
		Logger:     s.Logger,
	})
	mux.Handle("/", gate(pages))

	return mux
}
