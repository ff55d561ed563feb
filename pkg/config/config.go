// Package config loads typed configuration from environment variables,
// optionally seeded from .env files. Structs are annotated with
// github.com/caarlos0/env tags and parsed once at process start; business
// logic never reads the ambient environment directly.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("config: failed to parse environment")
	ErrLoadingEnv    = errors.New("config: failed to load env file")
)

// LoadEnv loads one or more .env files into the process environment.
// Later files override earlier ones. Missing files are an error; call sites
// that treat .env as optional should check for existence first.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Overload(paths...); err != nil {
		return fmt.Errorf("%w: %v", ErrLoadingEnv, err)
	}
	return nil
}

// Load parses the environment into cfg, which must be a pointer to a
// struct with env tags.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
