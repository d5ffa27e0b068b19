package config

import (
	"strings"
	"time"
)

// Deadline tier defaults. The two resource tiers mirror the backend's
// latency profile: metadata/data fetches are expected to answer inside
// 8s, dashboard aggregation and admin-weighted operations inside 10s.
const (
	defaultDataTimeout  = 8 * time.Second
	defaultAdminTimeout = 10 * time.Second
	defaultAuthTimeout  = 8 * time.Second
)

// BackendConfig contains the identity/API backend configuration.
// Deadlines are configuration, not per-call literals: every proxied
// operation picks one of the tiers below.
type BackendConfig struct {
	// BaseURL is the base URL of the backend identity/API service.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000/api/v1"`

	// DataTimeout bounds metadata/resource fetches
	// (charts, datasets, database schemas/tables/columns).
	DataTimeout time.Duration `env:"DATA_TIMEOUT" envDefault:"8s"`

	// AdminTimeout bounds dashboard aggregation and admin-weighted
	// operations (dashboard, comment deletion).
	AdminTimeout time.Duration `env:"ADMIN_TIMEOUT" envDefault:"10s"`

	// AuthTimeout bounds token endpoints (check, login, logout, refresh,
	// SSO exchange), including refresh attempts made by the gatekeeper.
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"8s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.DataTimeout <= 0 {
		b.DataTimeout = defaultDataTimeout
	}
	if b.AdminTimeout <= 0 {
		b.AdminTimeout = defaultAdminTimeout
	}
	if b.AuthTimeout <= 0 {
		b.AuthTimeout = defaultAuthTimeout
	}
}
