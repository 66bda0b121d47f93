package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration.
type Config struct {
	Server       Server
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Auth         AuthConfig
	Verification VerificationConfig
	Audit        AuditConfig
	Seed         SeedConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
}

// IsProduction reports whether the process runs with production defaults.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// PostgresConfig selects the durable store. Empty URL means in-memory stores.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig backs the uniqueness index and IP history. Empty URL means
// in-memory fallbacks.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the audit stream. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

type AuthConfig struct {
	JWTSigningKey string
	TokenTTL      time.Duration
	Issuer        string
}

// VerificationConfig points at the document/identity oracle. Empty URL selects
// the static development oracle.
type VerificationConfig struct {
	URL     string
	Timeout time.Duration
}

type AuditConfig struct {
	BufferSize int
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// FromEnv builds the configuration from the environment, loading a .env file
// first when one exists.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:        getEnv("TRUSTESTATE_ADDR", ":8080"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "registry.audit"),
		},
		Auth: AuthConfig{
			// Development default; production deployments must override it.
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TokenTTL:      getDuration("JWT_TTL", 12*time.Hour),
			Issuer:        getEnv("JWT_ISSUER", "trustestate"),
		},
		Verification: VerificationConfig{
			URL:     os.Getenv("VERIFICATION_ORACLE_URL"),
			Timeout: getDuration("VERIFICATION_ORACLE_TIMEOUT", 10*time.Second),
		},
		Audit: AuditConfig{
			BufferSize: getInt("AUDIT_BUFFER", 256),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@trustestate.com"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
