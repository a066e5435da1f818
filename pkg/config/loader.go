package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct using `env`
// tags. Slices are comma separated and durations use time.ParseDuration.
//
// Example:
//
//	type Config struct {
//	    HTTPPort       int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    KafkaBrokers   []string      `env:"KAFKA_BROKERS" envSeparator:","`
//	    RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
//	}
func Load(cfg any) error {
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
