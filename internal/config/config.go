package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/iposhala-portal/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	API         APIConfig            `toml:"api"`
	Cache       CacheConfig          `toml:"cache"`
	RateLimit   RateLimitConfig      `toml:"ratelimit"`
	MCP         MCPConfig            `toml:"mcp"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// APIConfig points at the IPO backend.
type APIConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses the request timeout, falling back to 15s.
func (c APIConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 15*time.Second)
}

// CacheConfig contains listing cache and view session settings.
type CacheConfig struct {
	ListingTTL      string `toml:"listing_ttl"`
	RefreshSchedule string `toml:"refresh_schedule"`
	SessionTTL      string `toml:"session_ttl"`
	MaxSessions     int    `toml:"max_sessions"`
}

// GetListingTTL returns how long listing responses stay cached. Zero disables the cache.
func (c CacheConfig) GetListingTTL() time.Duration {
	return parseDuration(c.ListingTTL, 2*time.Minute)
}

// GetSessionTTL returns how long an idle detail-view session is kept.
func (c CacheConfig) GetSessionTTL() time.Duration {
	return parseDuration(c.SessionTTL, 30*time.Minute)
}

// RateLimitConfig limits inbound requests. A zero rate disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// MCPConfig toggles the /mcp endpoint.
type MCPConfig struct {
	Enabled bool `toml:"enabled"`
}

// IsDevMode returns true when running in the dev environment.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies IPOSHALA_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("IPOSHALA_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("IPOSHALA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("IPOSHALA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	// VITE_API_BASE is what the browser build of the site reads from .env.
	if url := os.Getenv("VITE_API_BASE"); url != "" {
		config.API.URL = url
	}
	if url := os.Getenv("IPOSHALA_API_URL"); url != "" {
		config.API.URL = url
	}
	config.API.URL = strings.TrimRight(config.API.URL, "/")
	if timeout := os.Getenv("IPOSHALA_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}
	if ttl := os.Getenv("IPOSHALA_LISTING_TTL"); ttl != "" {
		config.Cache.ListingTTL = ttl
	}
	if rps := os.Getenv("IPOSHALA_RATE_LIMIT_RPS"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			config.RateLimit.RequestsPerSecond = v
		}
	}
	if level := os.Getenv("IPOSHALA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("IPOSHALA_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
