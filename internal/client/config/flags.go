package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/bitnet/internal/flagx"
	"github.com/dmitrijs2005/bitnet/internal/timex"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-s string     server base URL
//	-g string     server gRPC address
//	-d string     path to the local SQLite file
//	-o string     export directory
//	-t duration   request timeout (e.g. "5s")
//	-l string     log level
//
// os.Args is filtered with flagx.FilterArgs so unrelated flags are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-g", "-d", "-o", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "server gRPC address")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database file")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")
	fs.Func("t", "request timeout", func(v string) error {
		d, err := timex.ParseDuration(v)
		if err == nil {
			cfg.RequestTimeout = d
		}
		return err
	})
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
