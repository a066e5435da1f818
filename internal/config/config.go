package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/middleware"
)

// Storage backends for session state.
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Session storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass      string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// In-memory carts untouched for this long are dropped; storage keeps them.
	CartIdleMinutes int `env:"CART_IDLE_MINUTES" envDefault:"60"`

	// Kafka. Events are disabled when no brokers are configured.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Checkout
	CheckoutSettleDelayMs int `env:"CHECKOUT_SETTLE_DELAY_MS" envDefault:"2500"`

	// Assistant. Disabled when no API key is configured.
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIImageModel string `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`

	// Per-client-IP throttle on assistant endpoints; 0 disables it.
	AssistantRateRPS   float64 `env:"ASSISTANT_RATE_RPS" envDefault:"1"`
	AssistantRateBurst int     `env:"ASSISTANT_RATE_BURST" envDefault:"5"`

	// Reverse proxies whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxyCIDRs []string `env:"TRUSTED_PROXY_CIDRS" envSeparator:","`

	// Circuit breaker settings for assistant calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Slow redis command logging
	SlowCommandThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"100"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AssistantEnabled reports whether an OpenAI key is configured.
func (c *Config) AssistantEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// EventsEnabled reports whether Kafka brokers are configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StorageBackend {
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageRedis, StorageMemory, c.StorageBackend)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("CART_TTL_HOURS must be positive, got %d", c.CartTTL)
	}
	if c.CartIdleMinutes < 1 {
		return fmt.Errorf("CART_IDLE_MINUTES must be positive, got %d", c.CartIdleMinutes)
	}
	if c.CheckoutSettleDelayMs < 1 {
		return fmt.Errorf("CHECKOUT_SETTLE_DELAY_MS must be positive, got %d", c.CheckoutSettleDelayMs)
	}
	if c.AssistantRateRPS < 0 {
		return fmt.Errorf("ASSISTANT_RATE_RPS must not be negative, got %f", c.AssistantRateRPS)
	}
	if c.AssistantRateRPS > 0 && c.AssistantRateBurst < 1 {
		return fmt.Errorf("ASSISTANT_RATE_BURST must be positive, got %d", c.AssistantRateBurst)
	}
	if _, err := middleware.ParseTrustedProxies(c.TrustedProxyCIDRs); err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXY_CIDRS: %w", err)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.CBFailureRatio)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.OpenAIBaseURL != "" {
		if _, err := url.ParseRequestURI(c.OpenAIBaseURL); err != nil {
			return fmt.Errorf("invalid OPENAI_BASE_URL %q: %w", c.OpenAIBaseURL, err)
		}
	}
	return nil
}
