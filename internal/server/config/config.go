// Package config handles configuration for the server component:
// defaults, a .env file, a JSON overlay, environment variables and
// command-line flags, applied in that order.
package config

import (
	"fmt"
	"time"
)

// QR text strategies.
const (
	QRStrategyRaw = "raw"
	QRStrategyURL = "url"
)

// Config holds runtime settings for the BitNet server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses for the REST API and the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx), or "memory" for the in-process store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration / ResetTokenValidityDuration: session and reset token lifetimes.
//   - BaseURL: public origin used in reset links and URL-style QR payloads.
//   - QRStrategy / QRSize: "raw" or "url" payload text and PNG edge in pixels.
//   - RedisAddr: when set, reset tokens live in Redis instead of the database.
//   - S3*: object storage for QR images. An empty S3Bucket disables it.
//   - DevMode adds error details to 500 responses. ExposeResetToken returns
//     the reset token and link from forgot-password.
type Config struct {
	HTTPAddr                   string        `env:"HTTP_ADDR"`
	GRPCAddr                   string        `env:"GRPC_ADDR"`
	DatabaseDSN                string        `env:"DATABASE_DSN"`
	SecretKey                  string        `env:"SECRET_KEY"`
	TokenValidityDuration      time.Duration `env:"TOKEN_VALIDITY_DURATION"`
	ResetTokenValidityDuration time.Duration `env:"RESET_TOKEN_VALIDITY_DURATION"`
	BaseURL                    string        `env:"BASE_URL"`
	CORSOrigins                []string      `env:"CORS_ORIGINS" envSeparator:","`
	QRStrategy                 string        `env:"QR_STRATEGY"`
	QRSize                     int           `env:"QR_SIZE"`
	RedisAddr                  string        `env:"REDIS_ADDR"`
	RedisPassword              string        `env:"REDIS_PASSWORD"`
	S3RootUser                 string        `env:"S3_ROOT_USER"`
	S3RootPassword             string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket                   string        `env:"S3_BUCKET"`
	S3Region                   string        `env:"S3_REGION"`
	S3BaseEndpoint             string        `env:"S3_BASE_ENDPOINT"`
	DevMode                    bool          `env:"DEV_MODE"`
	ExposeResetToken           bool          `env:"EXPOSE_RESET_TOKEN"`
	LogLevel                   string        `env:"LOG_LEVEL"`
	OTELEndpoint               string        `env:"OTEL_ENDPOINT"`
}

// MemoryDSN selects the in-process repositories.
const MemoryDSN = "memory"

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3002"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = MemoryDSN
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.ResetTokenValidityDuration = 15 * time.Minute
	c.BaseURL = "http://localhost:3002"
	c.CORSOrigins = []string{"*"}
	c.QRStrategy = QRStrategyRaw
	c.QRSize = 256
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.QRStrategy != QRStrategyRaw && c.QRStrategy != QRStrategyURL {
		return fmt.Errorf("unknown qr strategy %q", c.QRStrategy)
	}
	if c.QRSize < 64 {
		return fmt.Errorf("qr size %d is too small", c.QRSize)
	}
	if c.TokenValidityDuration <= 0 || c.ResetTokenValidityDuration <= 0 {
		return fmt.Errorf("token validity durations must be positive")
	}
	return nil
}

// UsesMemoryStore reports whether DatabaseDSN selects the in-process store.
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseDSN == "" || c.DatabaseDSN == MemoryDSN
}

// LoadConfig builds a Config by applying defaults, then overlaying a .env
// file, an optional JSON file, environment variables and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotenv(cfg)
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
