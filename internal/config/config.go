package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration.
type Config struct {
	ServerPort    int    `env:"SERVER_PORT" envDefault:"8080"`
	MetricsPort   int    `env:"METRICS_PORT" envDefault:"9090"`
	TransportMode string `env:"TRANSPORT_MODE" envDefault:"stdio"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	Shopify ShopifyConfig
	Cache   CacheConfig
}

// ShopifyConfig holds the upstream Admin API credentials.
type ShopifyConfig struct {
	ShopDomain  string `env:"SHOPIFY_SHOP_DOMAIN"`
	AccessToken string `env:"SHOPIFY_ACCESS_TOKEN"`
	APIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2025-01"`
}

// CacheConfig controls the optional tool-result memoizer.
type CacheConfig struct {
	Enabled    bool   `env:"CACHE_ENABLED" envDefault:"false"`
	TTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"60"`
	RedisURL   string `env:"REDIS_URL"`
}

// TTL returns the cache time-to-live as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// Validate checks that the required upstream credentials are present. The
// returned error lists every missing variable so a misconfigured deployment
// fails with one actionable message.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Shopify.ShopDomain) == "" {
		missing = append(missing, "SHOPIFY_SHOP_DOMAIN")
	}
	if strings.TrimSpace(c.Shopify.AccessToken) == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.TransportMode {
	case "stdio", "sse":
	default:
		return fmt.Errorf("unknown transport mode: %s", c.TransportMode)
	}

	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive when the cache is enabled")
	}
	return nil
}
