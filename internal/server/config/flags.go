package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/bitnet/internal/flagx"
	"github.com/dmitrijs2005/bitnet/internal/timex"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      HTTP bind address (e.g. ":3002")
//	-grpc string   gRPC health bind address
//	-d string      database DSN ("memory" or a postgres URL)
//	-s string      JWT HMAC secret key
//	-t duration    session token validity (e.g. "168h", "7d")
//	-r duration    reset token validity (e.g. "15m")
//	-u string      public base URL
//	-cors string   comma-separated allowed origins
//	-qr string     QR strategy: raw | url
//	-redis string  Redis address for reset tokens
//	-b string      S3 bucket for QR images
//	-dev           development mode (use -dev=true)
//	-l string      log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-grpc", "-d", "-s", "-t", "-r", "-u", "-cors", "-qr", "-redis", "-b", "-dev", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCAddr, "grpc", config.GRPCAddr, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.Func("t", "session token validity", func(v string) error {
		d, err := timex.ParseDuration(v)
		if err == nil {
			config.TokenValidityDuration = d
		}
		return err
	})
	fs.Func("r", "reset token validity", func(v string) error {
		d, err := timex.ParseDuration(v)
		if err == nil {
			config.ResetTokenValidityDuration = d
		}
		return err
	})
	fs.StringVar(&config.BaseURL, "u", config.BaseURL, "public base URL")
	fs.Func("cors", "comma-separated allowed origins", func(v string) error {
		config.CORSOrigins = splitList(v)
		return nil
	})
	fs.StringVar(&config.QRStrategy, "qr", config.QRStrategy, "QR text strategy (raw|url)")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "Redis address")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for QR images")
	fs.BoolVar(&config.DevMode, "dev", config.DevMode, "development mode")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
