// Package config provides unified configuration for the restapp server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (RESTAPP_ prefix, plus SENTRY_*)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the restapp server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Lambda        LambdaConfig        `yaml:"lambda"`
	Logging       LoggingConfig       `yaml:"logging"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 60s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 10 MiB
	H2C             bool          `yaml:"h2c"`
}

// LambdaConfig holds settings for running behind AWS Lambda.
type LambdaConfig struct {
	ProxySource string `yaml:"proxy_source"` // "API_GW_V1", "API_GW_V2" or "ALB", default: "API_GW_V2"
}

// LoggingConfig holds log level and debug category settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type      string          `yaml:"type"`   // "none", "apikey" or "jwt", default: "none"
	Global    bool            `yaml:"global"` // guard every route, not only protected ones
	APIKeys   []APIKeyConfig  `yaml:"api_keys"`
	JWT       JWTConfig       `yaml:"jwt"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key         string   `yaml:"key" json:"key"`
	KeyFile     string   `yaml:"key_file" json:"key_file"` // _file variant for key
	Subject     string   `yaml:"subject" json:"subject"`
	ServiceTier string   `yaml:"service_tier" json:"service_tier"`
	Scopes      []string `yaml:"scopes" json:"scopes"`
}

// JWTConfig holds JWT authenticator settings.
type JWTConfig struct {
	Issuer      string `yaml:"issuer"`
	Audience    string `yaml:"audience"`
	JWKSURL     string `yaml:"jwks_url"` // required for type=jwt
	UserClaim   string `yaml:"user_claim"`
	ScopesClaim string `yaml:"scopes_claim"`
	TierClaim   string `yaml:"tier_claim"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Backend           string         `yaml:"backend"`             // "memory" or "redis", default: "memory"
	RequestsPerMinute int            `yaml:"requests_per_minute"` // 0 disables limiting
	Tiers             map[string]int `yaml:"tiers"`               // per-tier requests per minute
	Redis             RedisConfig    `yaml:"redis"`
}

// RedisConfig holds Redis connection settings for the shared rate limiter.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StorageConfig holds animal store settings.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // "memory" or "postgres", default: "memory"
	MaxSize  int            `yaml:"max_size"` // for memory store, default: 10000
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Sentry  SentryConfig  `yaml:"sentry"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// SentryConfig holds error reporting settings. Reporting is off without a DSN.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"` // default: "local"
	Debug       bool   `yaml:"debug"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodySize:     10 << 20,
		},
		Lambda: LambdaConfig{
			ProxySource: "API_GW_V2",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
		Auth: AuthConfig{
			Type: "none",
			RateLimit: RateLimitConfig{
				Backend: "memory",
			},
		},
		Storage: StorageConfig{
			Type:    "memory",
			MaxSize: 10000,
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
			Sentry: SentryConfig{
				Environment: "local",
			},
		},
	}
}
