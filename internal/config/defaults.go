package config

import "github.com/bobmcallan/iposhala-portal/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4251,
			Host: "localhost",
		},
		API: APIConfig{
			URL:     "http://localhost:8000",
			Timeout: "15s",
		},
		Cache: CacheConfig{
			ListingTTL:      "2m",
			RefreshSchedule: "@every 5m",
			SessionTTL:      "30m",
			MaxSessions:     5000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
