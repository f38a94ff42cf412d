// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at startup. Empty backend URLs
// mean the corresponding backend is skipped: no DATABASE_URL falls back to
// in-memory stores, no REDIS_URL disables the recommendation cache, no
// KAFKA_BROKERS keeps audit events store-only.
type Config struct {
	Addr string
	Env  string

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// RedisConfig holds connection tuning for the recommendation cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JWTConfig configures access token issuance and validation.
type JWTConfig struct {
	SigningKey     string
	Issuer         string
	Audience       string
	AccessTokenTTL time.Duration
}

// RateLimitConfig configures the per-IP sliding window limiter.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Disabled bool
}

// FromEnv builds a Config from environment variables, applying development
// defaults where unset.
func FromEnv() Config {
	cfg := Config{
		Addr:        envOr("COVERA_ADDR", ":8080"),
		Env:         envOr("COVERA_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "covera.audit.events"),
		},
		JWT: JWTConfig{
			SigningKey:     os.Getenv("JWT_SIGNING_KEY"),
			Issuer:         envOr("JWT_ISSUER", "covera"),
			Audience:       envOr("JWT_AUDIENCE", "covera-api"),
			AccessTokenTTL: envDuration("JWT_ACCESS_TOKEN_TTL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Requests: envInt("RATE_LIMIT_REQUESTS", 60),
			Window:   envDuration("RATE_LIMIT_WINDOW", time.Minute),
			Disabled: os.Getenv("RATE_LIMIT_DISABLED") == "true",
		},
	}

	if cfg.JWT.SigningKey == "" {
		// Development default - must be overridden in production.
		cfg.JWT.SigningKey = "dev-secret-key-change-in-production"
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
