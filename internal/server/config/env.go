package config

import (
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/bitnet/internal/timex"
)

// EnvPrefix is prepended to every variable name in Config's env tags.
const EnvPrefix = "BITNET_"

// parseEnv overlays Config with BITNET_* environment variables. Unset
// variables leave the current value alone. Durations accept the "7d" form.
func parseEnv(cfg *Config) {
	parseEnvFrom(cfg, nil)
}

// parseEnvFrom is parseEnv over vars instead of the process environment.
// A nil map reads the process environment.
func parseEnvFrom(cfg *Config, vars map[string]string) {
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
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
