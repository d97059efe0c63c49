package config

import (
	"strings"
	"time"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Disclaimer DisclaimerConfig `yaml:"disclaimer"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"               env:"SERVER_HOST"               env-default:"0.0.0.0"`
	Port            int           `yaml:"port"               env:"SERVER_PORT"               env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"       env:"SERVER_READ_TIMEOUT"       env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"      env:"SERVER_WRITE_TIMEOUT"      env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"       env:"SERVER_IDLE_TIMEOUT"       env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"   env:"SERVER_SHUTDOWN_TIMEOUT"   env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"        env-required:"true"`
	JWTIssuer       string        `yaml:"jwt_issuer"        env:"AUTH_JWT_ISSUER"        env-default:"cortex"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"  env:"AUTH_ACCESS_TOKEN_TTL"  env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"AUTH_REFRESH_TOKEN_TTL" env-default:"720h"`

	PasswordHashCost int `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"10"`
}

// EnrichmentConfig holds background AI enrichment settings.
type EnrichmentConfig struct {
	Enabled            bool          `yaml:"enabled"             env:"ENRICHMENT_ENABLED"             env-default:"true"`
	Workers            int           `yaml:"workers"             env:"ENRICHMENT_WORKERS"             env-default:"4"`
	QueueSize          int           `yaml:"queue_size"          env:"ENRICHMENT_QUEUE_SIZE"          env-default:"256"`
	ComputationTimeout time.Duration `yaml:"computation_timeout" env:"ENRICHMENT_COMPUTATION_TIMEOUT" env-default:"30s"`
	ProviderURL        string        `yaml:"provider_url"        env:"ENRICHMENT_PROVIDER_URL"`
	ProviderToken      string        `yaml:"provider_token"      env:"ENRICHMENT_PROVIDER_TOKEN"`
	ProviderRetries    uint64        `yaml:"provider_retries"    env:"ENRICHMENT_PROVIDER_RETRIES"    env-default:"3"`

	// KindsRaw is the comma-separated list of suggestion kinds computed on
	// record create/update events. Parsed into Kinds during validation.
	KindsRaw string                  `yaml:"kinds" env:"ENRICHMENT_KINDS" env-default:"CONTENT,RISK,RECOMMENDATION"`
	Kinds    []domain.SuggestionKind `yaml:"-"     env:"-"`
}

// DisclaimerConfig holds the AI content policy settings.
type DisclaimerConfig struct {
	// PolicyVersion identifies the AI-generated-content policy users must
	// acknowledge before AI suggestions are rendered to them. Bumping it
	// forces a fresh acknowledgment from every user.
	PolicyVersion string `yaml:"policy_version" env:"DISCLAIMER_POLICY_VERSION" env-default:"2024-06"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ParseSuggestionKinds parses a comma-separated kind list (e.g.
// "CONTENT,RISK") into validated domain kinds. An empty string returns nil.
func ParseSuggestionKinds(raw string) ([]domain.SuggestionKind, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	kinds := make([]domain.SuggestionKind, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := domain.SuggestionKind(strings.ToUpper(p))
		if !k.IsValid() {
			return nil, &invalidKindError{raw: p}
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

type invalidKindError struct{ raw string }

func (e *invalidKindError) Error() string {
	return "invalid suggestion kind: " + e.raw
}
