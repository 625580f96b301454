package config

import "time"

// Config holds runtime settings for the BitNet terminal client.
//
// Fields:
//   - ServerURL: base URL of the BitNet HTTP API.
//   - GRPCAddr: host:port of the server's gRPC health endpoint, probed to
//     show online/offline in the prompt.
//   - DBPath: SQLite file holding the session and the contact ledger.
//   - ExportDir: where contact exports and QR images are written.
//   - RequestTimeout: per-request limit for API calls.
//   - LogLevel: client log level (debug|info|warn|error).
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	GRPCAddr       string        `env:"GRPC_ADDR"`
	DBPath         string        `env:"DB_PATH"`
	ExportDir      string        `env:"EXPORT_DIR"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3002"
	c.GRPCAddr = "localhost:50051"
	c.DBPath = "bitnet.db"
	c.ExportDir = "exports"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), BITNET_CLIENT_* environment variables and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
