package bootstrap

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	uigateway "github.com/lucentbi/ui-gateway"
	"github.com/lucentbi/ui-gateway/config"
	"github.com/lucentbi/ui-gateway/internal/backend"
	domainauth "github.com/lucentbi/ui-gateway/internal/domain/auth"
	httpx "github.com/lucentbi/ui-gateway/internal/http"
	"github.com/lucentbi/ui-gateway/internal/observability/metrics"
	"github.com/lucentbi/ui-gateway/internal/service"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// StartHTTPServer builds the gateway service graph and starts the HTTP
// server. Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if appCfg.Observability.MetricsEnabled {
		m = metrics.New()
		metricsHandler = promhttp.Handler()
	}

	backendClient := backend.New(backend.Options{
		BaseURL:  appCfg.Backend.BaseURL,
		Logger:   logger,
		Observer: m,
	})

	refresh := service.NewRefreshService(service.RefreshServiceOptions{
		Backend: backendClient,
		Timeout: appCfg.Backend.AuthTimeout,
		Logger:  logger,
	})

	services := httpx.RouterServices{
		Backend:        backendClient,
		Refresh:        refresh,
		Classifier:     domainauth.NewClassifier(appCfg.Auth.PublicRoutes),
		LoginPath:      appCfg.Auth.LoginPath,
		CookieDomain:   appCfg.HTTP.CookieDomain,
		AuthTimeout:    appCfg.Backend.AuthTimeout,
		DataTimeout:    appCfg.Backend.DataTimeout,
		AdminTimeout:   appCfg.Backend.AdminTimeout,
		RateLimit:      appCfg.Auth.RateLimit,
		MetricsHandler: metricsHandler,
		Pages:          pagesHandler(appCfg, logger),
		Logger:         logger,
	}
	if m != nil {
		services.Metrics = m
	}

	handler := buildHTTPHandler(logger, services)

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

// pagesHandler serves the page shell from disk in dev mode for hot
// reloading, and from the embedded filesystem in production.
func pagesHandler(appCfg *config.AppConfig, logger *slog.Logger) http.Handler {
	if appCfg.IsDev {
		logger.Info("serving pages from disk", "dir", appCfg.HTTP.PagesDir)
		return http.FileServer(http.Dir(appCfg.HTTP.PagesDir))
	}

	pages, err := fs.Sub(uigateway.PagesFS, "public")
	if err != nil {
		logger.Error("embedded pages unavailable, falling back to disk", "error", err)
		return http.FileServer(http.Dir(appCfg.HTTP.PagesDir))
	}
	return http.FileServerFS(pages)
}

// buildHTTPHandler wraps the router with the middleware chain.
// Order: Recover -> RequestID -> Logging -> Router. RequestID sits outside
// Logging so the access log sees the ID on the request context.
func buildHTTPHandler(logger *slog.Logger, services httpx.RouterServices) http.Handler {
	h := httpx.NewRouter(services)
	h = httpx.Logging(logger)(h)
	h = httpx.RequestID()(h)
	h = httpx.Recover(logger)(h)
	return h
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server, draining
// in-flight requests for up to ten seconds.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
