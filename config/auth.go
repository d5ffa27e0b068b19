package config

import (
	"strings"
	"time"
)

// AuthConfig groups gatekeeper and route classification configuration.
type AuthConfig struct {
	// PublicRoutes lists path prefixes exempt from token enforcement.
	PublicRoutes []string `env:"AUTH_PUBLIC_ROUTES" envSeparator:"," envDefault:"/login,/sso/callback"`

	// LoginPath is the redirect target for denied requests.
	LoginPath string `env:"AUTH_LOGIN_PATH" envDefault:"/login"`

	// HomePath is the post-SSO navigation target.
	HomePath string `env:"AUTH_HOME_PATH" envDefault:"/"`

	// RateLimit bounds request rates on the /api/auth surface.
	RateLimit RateLimitConfig `envPrefix:"AUTH_RATELIMIT_"`
}

// RateLimitConfig defines the rate limiting parameters for the auth
// endpoints (brute force prevention).
type RateLimitConfig struct {
	// Enabled toggles rate limiting.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// Requests is the number of requests allowed per Window.
	Requests int `env:"REQUESTS" envDefault:"10"`

	// Window is the time window for rate limiting.
	Window time.Duration `env:"WINDOW" envDefault:"1m"`

	// Burst allows temporary bursts above the sustained rate.
	Burst int `env:"BURST" envDefault:"10"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	routes := a.PublicRoutes[:0]
	for _, p := range a.PublicRoutes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		routes = append(routes, p)
	}
	a.PublicRoutes = routes

	if !strings.HasPrefix(a.LoginPath, "/") {
		a.LoginPath = "/login"
	}
	if !strings.HasPrefix(a.HomePath, "/") {
		a.HomePath = "/"
	}

	a.RateLimit.Sanitize()
}

// Sanitize clamps rate limit values to a usable range.
func (r *RateLimitConfig) Sanitize() {
	if r.Requests <= 0 {
		r.Requests = 10
	}
	if r.Window <= 0 {
		r.Window = time.Minute
	}
	if r.Burst <= 0 {
		r.Burst = r.Requests
	}
}
