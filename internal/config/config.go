// Package config defines process configuration and loading.
package config

import (
	"runtime"

	"github.com/okian/harrier/internal/domain/adjust"
)

// Config contains process configuration for the batch runner.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the Prometheus listen address, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// DataDir is where the dual-outcome journal lives.
	DataDir string `koanf:"data_dir"`

	// JobWorkers bounds parallel batch jobs.
	JobWorkers int `koanf:"job_workers"`

	// AdjustIntervalMinutes schedules the course adjustment recompute.
	AdjustIntervalMinutes int `koanf:"adjust_interval_minutes"`

	// StandingsIntervalMinutes schedules the standings recompute.
	StandingsIntervalMinutes int `koanf:"standings_interval_minutes"`

	// Course adjuster tuning.
	MinRunnersRequired int     `koanf:"min_runners_required"`
	MaxRunnersUsed     int     `koanf:"max_runners_used"`
	MinCoursesRequired int     `koanf:"min_courses_required"`
	WinsorFraction     float64 `koanf:"winsor_fraction"`
	FirstAdjustYear    int     `koanf:"first_adjust_year"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		MetricsAddr:              ":9090",
		DataDir:                  "./data",
		JobWorkers:               runtime.NumCPU(),
		AdjustIntervalMinutes:    360,
		StandingsIntervalMinutes: 60,
		MinRunnersRequired:       adjust.DefaultMinRunners,
		MaxRunnersUsed:           adjust.DefaultMaxRunners,
		MinCoursesRequired:       adjust.DefaultMinCourses,
		WinsorFraction:           adjust.DefaultWinsorFraction,
		FirstAdjustYear:          adjust.DefaultFirstYear,
	}
}
