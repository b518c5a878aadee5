package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays values from the environment. Only variables that are
// actually set in the environment touch the config; everything else keeps
// its earlier value.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
