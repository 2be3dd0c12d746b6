// Package config resolves the service configuration from the environment
// exactly once at startup.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimization struct {
		// DefaultBudget caps function evaluations for runs that do not set
		// their own budget; the service never starts an unbounded run.
		DefaultBudget int           `env:"OPT_DEFAULT_BUDGET" envDefault:"10000"`
		DefaultSigma  float64       `env:"OPT_DEFAULT_SIGMA" envDefault:"1.0"`
		MaxRuntime    time.Duration `env:"OPT_MAX_RUNTIME" envDefault:"5m"`
		MaxConcurrent int           `env:"OPT_MAX_CONCURRENT_RUNS" envDefault:"8"`
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
