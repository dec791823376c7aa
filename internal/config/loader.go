package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HARRIER_CONFIG is set
//  3. env (prefix HARRIER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("HARRIER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: HARRIER_LOG_LEVEL, HARRIER_JOB_WORKERS, ...
	// mapped to flat lowercase keys matching the koanf tags.
	envProvider := env.Provider("HARRIER_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "harrier_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.WinsorFraction < 0 || cfg.WinsorFraction >= 0.5 {
		return nil, fmt.Errorf("%w: winsor_fraction must be in [0, 0.5)", ErrInvalidConfig)
	}
	if cfg.JobWorkers <= 0 {
		return nil, fmt.Errorf("%w: job_workers must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
