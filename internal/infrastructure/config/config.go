package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceName identifies this service in logs, traces, and event headers.
const ServiceName = "lms"

// Config holds all runtime configuration for the loan management service.
type Config struct {
	Environment string // "development", "staging", "production"

	GRPCPort int
	HTTPPort int

	Database DatabaseConfig
	Kafka    KafkaConfig
	Engine   EngineConfig

	LogLevel  string
	LogFormat string

	// FileStoreDir is where payment proofs and disbursement documents are
	// written.
	FileStoreDir string

	// OTLPEndpoint is the collector address for trace export; empty disables
	// tracing.
	OTLPEndpoint string
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

// KafkaConfig holds Kafka connection parameters.
type KafkaConfig struct {
	Brokers []string
}

// EngineConfig holds the tunables of the servicing engine. Zero values fall
// back to the domain defaults.
type EngineConfig struct {
	// PenaltyAnnualRate is the late-payment penalty rate per annum, as a
	// fraction (0.05 = 5%).
	PenaltyAnnualRate float64
	// AttemptWindow is the minimum gap between payment attempts against the
	// same installment.
	AttemptWindow time.Duration
	// DuplicateWindow is the time window of the duplicate-payment guard.
	DuplicateWindow time.Duration
	// DuplicateTolerance is the amount band of the duplicate-payment guard,
	// as a fraction (0.05 = ±5%).
	DuplicateTolerance float64
	// ReconciliationTolerance is the maximum accepted deviation, in currency
	// units, between a generated schedule and the expected totals before a
	// warning is logged.
	ReconciliationTolerance float64
}

// Load reads configuration from environment variables with sensible defaults
// for local development.
func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),

		GRPCPort: getEnvInt("GRPC_PORT", 50051),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "lms"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "lms"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},

		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		},

		Engine: EngineConfig{
			PenaltyAnnualRate:       getEnvFloat("PENALTY_ANNUAL_RATE", 0.05),
			AttemptWindow:           time.Duration(getEnvInt("PAYMENT_ATTEMPT_WINDOW_SECONDS", 30)) * time.Second,
			DuplicateWindow:         time.Duration(getEnvInt("DUPLICATE_WINDOW_HOURS", 24)) * time.Hour,
			DuplicateTolerance:      getEnvFloat("DUPLICATE_TOLERANCE", 0.05),
			ReconciliationTolerance: getEnvFloat("RECONCILIATION_TOLERANCE", 100),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		FileStoreDir: getEnv("FILE_STORE_DIR", "/var/lib/lms/files"),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

// Validate panics if required configuration is missing. Called once at
// startup so misconfiguration fails fast rather than at first query.
func (c *Config) Validate() {
	if c.Database.Password == "" && c.Environment != "development" {
		panic("DB_PASSWORD is required outside development")
	}
	if len(c.Kafka.Brokers) == 0 {
		panic("KAFKA_BROKERS must not be empty")
	}
}

// GRPCAddr returns the listen address for the gRPC server.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddr returns the listen address for the HTTP server.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
