// Package config defines qguide configuration and how it is loaded.
//
// Values are layered, lowest precedence first: built-in defaults, an optional
// YAML file, QGUIDE_ environment variables, then explicit overrides (command
// line flags).
package config

import (
	"fmt"

	"github.com/pfrederiksen/qguide/internal/logger"
)

// Config contains run configuration.
type Config struct {
	// DocumentsDir is scanned recursively for report pages.
	DocumentsDir string `koanf:"documents_dir"`

	// IdentityFile is the course identity table produced by the catalog scraper.
	IdentityFile string `koanf:"identity_file"`

	// OutputFile receives the analytics snapshot.
	OutputFile string `koanf:"output_file"`

	// MaxWorkers caps the worker pool; the pool never exceeds the CPU count.
	MaxWorkers int `koanf:"max_workers"`

	// BatchesPerWorker controls how finely the input is partitioned.
	BatchesPerWorker int `koanf:"batches_per_worker"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsFile, when set, receives Prometheus metrics after the run.
	MetricsFile string `koanf:"metrics_file"`

	// TopN is the number of top rated courses shown in the run summary.
	TopN int `koanf:"top_n"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		DocumentsDir:     "data/QGuides",
		IdentityFile:     "output/courses_by_fas_id.json",
		OutputFile:       "results/course_analytics.json",
		MaxWorkers:       8,
		BatchesPerWorker: 4,
		LogLevel:         "info",
		TopN:             5,
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	switch {
	case c.DocumentsDir == "":
		return fmt.Errorf("%w: documents_dir must not be empty", ErrInvalidConfig)
	case c.IdentityFile == "":
		return fmt.Errorf("%w: identity_file must not be empty", ErrInvalidConfig)
	case c.OutputFile == "":
		return fmt.Errorf("%w: output_file must not be empty", ErrInvalidConfig)
	case c.MaxWorkers < 1:
		return fmt.Errorf("%w: max_workers must be at least 1, got %d", ErrInvalidConfig, c.MaxWorkers)
	case c.BatchesPerWorker < 1:
		return fmt.Errorf("%w: batches_per_worker must be at least 1, got %d", ErrInvalidConfig, c.BatchesPerWorker)
	case c.TopN < 0:
		return fmt.Errorf("%w: top_n must not be negative, got %d", ErrInvalidConfig, c.TopN)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
