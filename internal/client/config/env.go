package config

import (
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrijs2005/bitnet/internal/timex"
)

// EnvPrefix keeps client variables apart from the server's BITNET_* ones.
const EnvPrefix = "BITNET_CLIENT_"

func parseEnv(cfg *Config) {
	opts := env.Options{
		Prefix: EnvPrefix,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (any, error) {
				return timex.ParseDuration(v)
			},
		},
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		panic(err)
	}
}
