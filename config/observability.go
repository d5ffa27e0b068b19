package config

import "strings"

// ObservabilityConfig groups configuration that controls metrics and logging.
type ObservabilityConfig struct {
	// MetricsEnabled toggles the Prometheus /metrics endpoint.
	MetricsEnabled bool `env:"OBSERVABILITY_METRICS_ENABLED" envDefault:"true"`

	// LogLevel selects the minimum slog level: debug, info, warn, error.
	LogLevel string `env:"OBSERVABILITY_LOG_LEVEL" envDefault:"info"`
}

// Sanitize normalises observability configuration values.
func (c *ObservabilityConfig) Sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
}
