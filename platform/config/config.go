// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// APIConfig provides settings for the outbound backend API client.
type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetAPIRateLimit() float64
	GetAPIRateBurst() int
}

// KitConfig provides settings for the kit orchestration controller.
type KitConfig interface {
	GetProductLine() string
}

// ReportConfig provides settings for report fetching.
type ReportConfig interface {
	GetReportLanguage() string
}

// PricingCacheConfig provides settings for the upgrade pricing cache.
type PricingCacheConfig interface {
	GetRedisURL() string
	GetPricingCacheTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetMetricsEnabled() bool
	GetHTTPRateLimit() float64
	GetHTTPRateBurst() int
}

// SessionConfig provides settings for the session registry.
type SessionConfig interface {
	GetSessionIdleTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	APIBaseURL      string
	APITimeout      time.Duration
	APIRateLimit    float64
	APIRateBurst    int
	ProductLine     string
	ReportLanguage  string
	RedisURL        string
	PricingCacheTTL time.Duration
	CORSOrigins     []string
	MetricsEnabled  bool
	HTTPRateLimit   float64
	HTTPRateBurst   int
	SessionIdleTTL  time.Duration
}

// APIConfig implementation
func (c *Config) GetAPIBaseURL() string        { return c.APIBaseURL }
func (c *Config) GetAPITimeout() time.Duration { return c.APITimeout }
func (c *Config) GetAPIRateLimit() float64     { return c.APIRateLimit }
func (c *Config) GetAPIRateBurst() int         { return c.APIRateBurst }

// KitConfig implementation
func (c *Config) GetProductLine() string { return c.ProductLine }

// ReportConfig implementation
func (c *Config) GetReportLanguage() string { return c.ReportLanguage }

// PricingCacheConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetPricingCacheTTL() time.Duration { return c.PricingCacheTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetMetricsEnabled() bool   { return c.MetricsEnabled }
func (c *Config) GetHTTPRateLimit() float64 { return c.HTTPRateLimit }
func (c *Config) GetHTTPRateBurst() int     { return c.HTTPRateBurst }

// SessionConfig implementation
func (c *Config) GetSessionIdleTTL() time.Duration { return c.SessionIdleTTL }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		APIBaseURL:      strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		APITimeout:      mustDuration(getEnv("API_TIMEOUT", "10s")),
		APIRateLimit:    mustFloat(getEnv("API_RATE_LIMIT", "20")),
		APIRateBurst:    mustInt(getEnv("API_RATE_BURST", "40")),
		ProductLine:     getEnv("PRODUCT_LINE", "circle"),
		ReportLanguage:  getEnv("REPORT_LANGUAGE", "en-HK"),
		RedisURL:        getEnv("REDIS_URL", ""),
		PricingCacheTTL: mustDuration(getEnv("PRICING_CACHE_TTL", "1h")),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		MetricsEnabled:  strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
		HTTPRateLimit:   mustFloat(getEnv("HTTP_RATE_LIMIT", "10")),
		HTTPRateBurst:   mustInt(getEnv("HTTP_RATE_BURST", "30")),
		SessionIdleTTL:  mustDuration(getEnv("SESSION_IDLE_TTL", "30m")),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be a positive duration")
	}
	if cfg.APIRateLimit <= 0 || cfg.APIRateBurst <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT and API_RATE_BURST must be positive")
	}
	if cfg.HTTPRateLimit <= 0 || cfg.HTTPRateBurst <= 0 {
		return nil, fmt.Errorf("HTTP_RATE_LIMIT and HTTP_RATE_BURST must be positive")
	}
	if cfg.SessionIdleTTL <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
