// Package config loads process-wide settings from the environment (spec §6
// "Recognized configuration options"), following the teacher's flat
// os.LookupEnv-with-fallback style in internal/config/config.go.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is every environment-sourced setting the server reads at startup.
// Once loaded it is treated as read-only for the lifetime of the process
// (spec §8 "Global mutable state").
type Config struct {
	Database    DatabaseConfig
	JWT         JWTConfig
	Server      ServerConfig
	Neo4j       Neo4jConfig
	S3          S3Config
	Temporal    TemporalConfig
	FrontendURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Host string
	Port int
}

// Neo4jConfig configures the internal/graph attack-chain mirror. Disabled
// (Enabled=false) by default — the relational store is the system of
// record, Neo4j is an optional query convenience (spec §4.E read path still
// works without it).
type Neo4jConfig struct {
	Enabled  bool
	URI      string
	Username string
	Password string
	Database string
}

// S3Config configures internal/archive's raw-file retention upload.
// Disabled by default since it requires real AWS credentials.
type S3Config struct {
	Enabled   bool
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// TemporalConfig configures the internal/workflows durable correlation
// sweep worker. Disabled by default; internal/schedule's cron sweep runs
// regardless and does not depend on Temporal being enabled.
type TemporalConfig struct {
	Enabled  bool
	HostPort string
}

// Load reads a .env file if present (ignored if absent, matching the
// teacher's best-effort godotenv.Load() call in cmd/server/main.go) and
// returns the resolved Config.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			URL:            getEnvString("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 10),
		},
		JWT: JWTConfig{
			Secret:             getEnvString("JWT_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvInt("JWT_ACCESS_TOKEN_EXPIRY_SECS", 900)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvInt("JWT_REFRESH_TOKEN_EXPIRY_SECS", 604800)) * time.Second,
		},
		Server: ServerConfig{
			Host: getEnvString("BACKEND_HOST", "0.0.0.0"),
			Port: getEnvInt("BACKEND_PORT", 3000),
		},
		Neo4j: Neo4jConfig{
			Enabled:  getEnvBool("NEO4J_ENABLED", false),
			URI:      getEnvString("NEO4J_URI", "bolt://127.0.0.1:7687"),
			Username: getEnvString("NEO4J_USERNAME", "neo4j"),
			Password: getEnvString("NEO4J_PASSWORD", ""),
			Database: getEnvString("NEO4J_DATABASE", "neo4j"),
		},
		S3: S3Config{
			Enabled:   getEnvBool("ARCHIVE_S3_ENABLED", false),
			Region:    getEnvString("ARCHIVE_S3_REGION", "us-east-1"),
			Bucket:    getEnvString("ARCHIVE_S3_BUCKET", ""),
			AccessKey: getEnvString("ARCHIVE_S3_ACCESS_KEY", ""),
			SecretKey: getEnvString("ARCHIVE_S3_SECRET_KEY", ""),
		},
		Temporal: TemporalConfig{
			Enabled:  getEnvBool("TEMPORAL_ENABLED", false),
			HostPort: getEnvString("TEMPORAL_HOST_PORT", "localhost:7233"),
		},
		FrontendURL: getEnvString("FRONTEND_URL", ""),
	}
}

func getEnvString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
