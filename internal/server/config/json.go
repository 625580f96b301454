package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bitnet/internal/flagx"
	"github.com/dmitrijs2005/bitnet/internal/timex"
)

// JsonConfig is the DTO read from the -c/-config file. Durations use
// timex.Duration so "15m", "7d" and integer nanoseconds all work.
type JsonConfig struct {
	HTTPAddr                   string         `json:"http_addr"`
	GRPCAddr                   string         `json:"grpc_addr"`
	DatabaseDSN                string         `json:"database_dsn"`
	SecretKey                  string         `json:"secret_key"`
	TokenValidityDuration      timex.Duration `json:"token_validity_duration"`
	ResetTokenValidityDuration timex.Duration `json:"reset_token_validity_duration"`
	BaseURL                    string         `json:"base_url"`
	CORSOrigins                []string       `json:"cors_origins"`
	QRStrategy                 string         `json:"qr_strategy"`
	QRSize                     int            `json:"qr_size"`
	RedisAddr                  string         `json:"redis_addr"`
	RedisPassword              string         `json:"redis_password"`
	S3RootUser                 string         `json:"s3_root_user"`
	S3RootPassword             string         `json:"s3_root_password"`
	S3Bucket                   string         `json:"s3_bucket"`
	S3Region                   string         `json:"s3_region"`
	S3BaseEndpoint             string         `json:"s3_base_endpoint"`
	DevMode                    bool           `json:"dev_mode"`
	ExposeResetToken           bool           `json:"expose_reset_token"`
	LogLevel                   string         `json:"log_level"`
	OTELEndpoint               string         `json:"otel_endpoint"`
}

func toJsonConfig(c *Config) JsonConfig {
	return JsonConfig{
		HTTPAddr:                   c.HTTPAddr,
		GRPCAddr:                   c.GRPCAddr,
		DatabaseDSN:                c.DatabaseDSN,
		SecretKey:                  c.SecretKey,
		TokenValidityDuration:      timex.Duration{Duration: c.TokenValidityDuration},
		ResetTokenValidityDuration: timex.Duration{Duration: c.ResetTokenValidityDuration},
		BaseURL:                    c.BaseURL,
		CORSOrigins:                c.CORSOrigins,
		QRStrategy:                 c.QRStrategy,
		QRSize:                     c.QRSize,
		RedisAddr:                  c.RedisAddr,
		RedisPassword:              c.RedisPassword,
		S3RootUser:                 c.S3RootUser,
		S3RootPassword:             c.S3RootPassword,
		S3Bucket:                   c.S3Bucket,
		S3Region:                   c.S3Region,
		S3BaseEndpoint:             c.S3BaseEndpoint,
		DevMode:                    c.DevMode,
		ExposeResetToken:           c.ExposeResetToken,
		LogLevel:                   c.LogLevel,
		OTELEndpoint:               c.OTELEndpoint,
	}
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Keys missing from the file keep their current values. Unreadable files
// and invalid JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJsonConfig(config)
	if err := json.Unmarshal(file, &c); err != nil {
		panic(err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.GRPCAddr = c.GRPCAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	config.BaseURL = c.BaseURL
	config.CORSOrigins = c.CORSOrigins
	config.QRStrategy = c.QRStrategy
	config.QRSize = c.QRSize
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.DevMode = c.DevMode
	config.ExposeResetToken = c.ExposeResetToken
	config.LogLevel = c.LogLevel
	config.OTELEndpoint = c.OTELEndpoint
}
