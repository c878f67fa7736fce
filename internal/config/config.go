// Package config loads the storefront configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/dukahub/storefront/pkg/config"
	"github.com/dukahub/storefront/pkg/validator"
)

// Config is the storefront service configuration.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront" validate:"required"`
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production"`
	Port        int    `env:"PORT" envDefault:"8080" validate:"gte=1,lte=65535"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// Tenant names the store this instance serves; it is sent to the
	// backend on every request.
	Tenant string `env:"TENANT" validate:"required"`

	// BackendURLs lists the tenant backend mirrors, primary first.
	BackendURLs    []string      `env:"BACKEND_URLS" envSeparator:"," validate:"required,min=1,dive,url"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
	MirrorDelay    time.Duration `env:"MIRROR_DELAY" envDefault:"1s"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379" validate:"required"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionSecret string        `env:"SESSION_SECRET" validate:"required,min=32"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`

	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`

	PprofEnabled bool     `env:"PPROF_ENABLED" envDefault:"false"`
	PprofCIDRs   []string `env:"PPROF_CIDRS" envSeparator:"," envDefault:"127.0.0.1/32"`

	PolicyCacheMaxAge int `env:"POLICY_CACHE_MAX_AGE" envDefault:"300"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
