package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// environment holds the settings read from the process environment. Flags
// given on the command line take precedence.
type environment struct {
	Config   string `env:"FMTRC_CONFIG"`
	Format   string `env:"FMTRC_FORMAT" envDefault:"json"`
	LogLevel string `env:"FMTRC_LOG_LEVEL" envDefault:"warn"`
	// NoColor follows the no-color.org convention: any non-empty value.
	NoColor string `env:"NO_COLOR"`
}

func parseEnv() (environment, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return environment{}, fmt.Errorf("reading environment: %w", err)
	}
	return e, nil
}
