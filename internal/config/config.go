package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}

type AuthConfig struct {
	JWTSecret         []byte
	AccessTokenTTL    time.Duration
	SeedAdminUsername string
	SeedAdminPassword string
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	// ProductCacheTTL bounds how long another process can serve a catalog listing
	// that predates its own write. Within one process stale writes are dropped.
	ProductCacheTTL time.Duration
}

type NATSConfig struct {
	URL     string
	Subject string
}

type EventLogConfig struct {
	ClickHouseDSN string
	BatchSize     int
	FlushInterval time.Duration
	HealthPort    string
}

type TelemetryConfig struct {
	OTLPEndpoint string // tracing is disabled when empty
	Insecure     bool
}

type Config struct {
	Port          string
	GinMode       string
	CORSOrigins   []string
	SecureCookies bool
	DB            DBConfig
	Auth          AuthConfig
	Redis         RedisConfig
	NATS          NATSConfig
	EventLog      EventLogConfig
	Telemetry     TelemetryConfig
}

// Load reads configs/.env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (Config, error) {
	var cfg Config
	var err error

	cfg.Port = getEnv("PORT", "8080")
	cfg.GinMode = getEnv("GIN_MODE", "debug")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"))
	cfg.SecureCookies = os.Getenv("COOKIE_SECURE") == "true"

	cfg.DB = DBConfig{
		Driver:     getEnv("DB_DRIVER", "postgres"),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnv("DB_PORT", "5432"),
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", "postgres"),
		Name:       getEnv("DB_NAME", "worksync"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "worksync.db"),
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.DB.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return Config{}, err
	}
	if cfg.DB.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return Config{}, err
	}
	if cfg.DB.ConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Config{}, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if cfg.GinMode == "release" {
			return Config{}, fmt.Errorf("JWT_SECRET environment variable is required in release mode")
		}
		secret = "default_super_secret_key" // development fallback only
	}
	cfg.Auth.JWTSecret = []byte(secret)
	ttlMinutes, err := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 120)
	if err != nil {
		return Config{}, err
	}
	if ttlMinutes <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	cfg.Auth.AccessTokenTTL = time.Duration(ttlMinutes) * time.Minute
	cfg.Auth.SeedAdminUsername = os.Getenv("SEED_ADMIN_USERNAME")
	cfg.Auth.SeedAdminPassword = os.Getenv("SEED_ADMIN_PASSWORD")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.Redis.ProductCacheTTL, err = getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}

	cfg.NATS.URL = os.Getenv("NATS_URL")
	cfg.NATS.Subject = getEnv("NATS_SUBJECT", "worksync.events")

	cfg.EventLog.ClickHouseDSN = getEnv("CLICKHOUSE_DSN", "tcp://localhost:9000?debug=false")
	if cfg.EventLog.BatchSize, err = getEnvInt("EVENTLOG_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.EventLog.BatchSize <= 0 {
		return Config{}, fmt.Errorf("EVENTLOG_BATCH_SIZE must be positive")
	}
	if cfg.EventLog.FlushInterval, err = getEnvDuration("EVENTLOG_FLUSH_INTERVAL", 5*time.Second); err != nil {
		return Config{}, err
	}
	cfg.EventLog.HealthPort = getEnv("EVENTLOG_PORT", "8081")

	cfg.Telemetry.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.Telemetry.Insecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
