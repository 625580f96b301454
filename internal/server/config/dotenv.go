package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/bitnet/internal/flagx"
	"github.com/joho/godotenv"
)

// loadDotenv overlays cfg with the BITNET_* entries of the file named by
// -env, or of ./.env when present. The file is read into a map and never
// copied into the process environment, so the JSON file and real
// environment variables applied afterwards still win over it.
// An explicit -env path that cannot be read panics, a missing ./.env does not.
func loadDotenv(cfg *Config) {
	path := flagx.EnvFileFlag()
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			panic(err)
		}
		path = ".env"
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		panic(err)
	}
	parseEnvFrom(cfg, vars)
}
