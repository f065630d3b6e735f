package config

import (
	"fmt"

	pkgconfig "github.com/realtora/EstateHub/pkg/config"
)

// Config holds all configuration for the EstateHub API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"estatehub"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"estatehub_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"estatehub"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"30"`
	SlowQueryThresholdMs  int   `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Redis (advertised-listing cache); empty host disables the cache.
	RedisHost string `env:"REDIS_HOST" envDefault:""`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Identity provider. An empty secret leaves auth-gated routes answering 503.
	AuthSecret string `env:"AUTH_TOKEN_SECRET" envDefault:""`

	// Stripe. An empty key leaves payment endpoints answering 503; set
	// PAYMENT_PROVIDER=mock for local development without Stripe.
	PaymentProvider string `env:"PAYMENT_PROVIDER" envDefault:"stripe"`
	StripeSecretKey string `env:"STRIPE_SECRET_KEY" envDefault:""`
	StripeAPIBase   string `env:"STRIPE_API_BASE" envDefault:"https://api.stripe.com"`
	Currency        string `env:"PAYMENT_CURRENCY" envDefault:"usd"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// pprof endpoints are only served to these CIDRs.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load estatehub config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// Outside development, a configured auth secret must not be trivially short.
	if cfg.Environment != "development" && cfg.AuthSecret != "" && len(cfg.AuthSecret) < 32 {
		return nil, fmt.Errorf("AUTH_TOKEN_SECRET must be at least 32 characters long, got %d", len(cfg.AuthSecret))
	}

	switch cfg.PaymentProvider {
	case "stripe", "mock":
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.PaymentProvider)
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
