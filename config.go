package main

import "github.com/caarlos0/env/v6"

// shellConfig carries the environment-settable defaults of the CLI.
// Flags with the same meaning override these.
type shellConfig struct {
	Device string `env:"MICTAP_DEVICE" envDefault:"default"`
	NoTUI  bool   `env:"MICTAP_NOTUI" envDefault:"false"`
}

func loadConfig() (shellConfig, error) {
	var cfg shellConfig
	if err := env.Parse(&cfg); err != nil {
		return shellConfig{}, err
	}
	return cfg, nil
}
