package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr              string        `env:"MONTYHALL_ADDR"                envDefault:"127.0.0.1:17890"`
	LogLevel          string        `env:"MONTYHALL_LOG_LEVEL"           envDefault:"info"`
	MaxTrials         int           `env:"MONTYHALL_MAX_TRIALS"          envDefault:"10000000"`
	Workers           int           `env:"MONTYHALL_WORKERS"             envDefault:"0"`
	RequestTimeout    time.Duration `env:"MONTYHALL_REQUEST_TIMEOUT"     envDefault:"60s"`
	ReadHeaderTimeout time.Duration `env:"MONTYHALL_READ_HEADER_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that env tags cannot express.
func (c Config) Validate() error {
	if c.MaxTrials <= 0 {
		return fmt.Errorf("MONTYHALL_MAX_TRIALS must be positive, got %d", c.MaxTrials)
	}
	if c.Workers < 0 {
		return fmt.Errorf("MONTYHALL_WORKERS must not be negative, got %d", c.Workers)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("MONTYHALL_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed zerolog level.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("MONTYHALL_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Plan is the fixed set of batch sizes the command-line report runs.
type Plan struct {
	BatchSizes []int
}

// DefaultPlan returns the 1,000 / 10,000 / 100,000 trial batches.
func DefaultPlan() Plan {
	return Plan{BatchSizes: []int{1000, 10000, 100000}}
}
