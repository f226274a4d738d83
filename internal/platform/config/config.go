// Package config builds typed runtime configuration from the environment so
// main stays lean. Every timing and policy value here is operator-tunable;
// the defaults mirror the documented pilot settings.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	Session  SessionPolicy
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// SessionPolicy holds the session lifecycle timing knobs. Tests override
// these with millisecond values; deployments tune them through env.
type SessionPolicy struct {
	// SilenceWarning fires after this much inactivity while listening.
	SilenceWarning time.Duration
	// AbandonAfter ends the session after this much total inactivity.
	AbandonAfter time.Duration
	// SessionCeiling is the hard cap on total session duration.
	SessionCeiling time.Duration
	// MaxTranscriptTurns bounds the aggregator's sliding window.
	MaxTranscriptTurns int
	// TurnTokenTTL bounds how long the turn-submission token stays valid.
	TurnTokenTTL time.Duration
}

// RedisConfig holds connection settings for the optional Redis backends
// (daily reward usage counters, device fingerprint counters).
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the read-only lookup database settings.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig holds the outbound event feed settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ContextCacheTTL enforces retention for cached business context and tier
// policy lookups.
var ContextCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables. A .env file in
// the working directory is loaded first when present (development
// convenience); real deployments set the environment directly.
func FromEnv() Server {
	_ = godotenv.Load()

	addr := os.Getenv("VOCILIA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		Session: SessionPolicy{
			SilenceWarning:     envDuration("SESSION_SILENCE_WARNING", 10*time.Second),
			AbandonAfter:       envDuration("SESSION_ABANDON_AFTER", 30*time.Second),
			SessionCeiling:     envDuration("SESSION_CEILING", 5*time.Minute),
			MaxTranscriptTurns: envInt("SESSION_MAX_TURNS", 50),
			TurnTokenTTL:       envDuration("SESSION_TOKEN_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 500*time.Millisecond),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 500*time.Millisecond),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			// Empty topic falls back to the publisher's default.
			Topic: os.Getenv("KAFKA_TOPIC"),
		},
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
