// Package config defines the service configuration and how it is loaded.
package config

import (
	"fmt"
	"math"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TemplateDir holds the template_<label>.json files.
	TemplateDir string `koanf:"template_dir"`

	// SampleCount is the length every stroke is resampled to.
	SampleCount int `koanf:"sample_count"`

	// Threshold is the distance a best match must stay under.
	Threshold float64 `koanf:"threshold"`

	// SearchRadius widens the projected corridor at each refinement level.
	SearchRadius int `koanf:"search_radius"`

	// MatchWorkers sets how many goroutines compare templates per request.
	MatchWorkers int `koanf:"match_workers"`

	// DisplayDurationMS is how long clients should show a recognized label.
	DisplayDurationMS int `koanf:"display_duration_ms"`

	// MaxStrokePoints caps the size of a submitted stroke.
	MaxStrokePoints int `koanf:"max_stroke_points"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		TemplateDir:       "templates",
		SampleCount:       64,
		Threshold:         20.0,
		SearchRadius:      1,
		MatchWorkers:      1,
		DisplayDurationMS: 2500,
		MaxStrokePoints:   10_000,
	}
}

// DisplayDuration returns DisplayDurationMS as a time.Duration.
func (c *Config) DisplayDuration() time.Duration {
	return time.Duration(c.DisplayDurationMS) * time.Millisecond
}

// Validate reports the first invalid field, wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TemplateDir == "":
		return fmt.Errorf("%w: template_dir must not be empty", ErrInvalidConfig)
	case c.SampleCount < 2:
		return fmt.Errorf("%w: sample_count must be at least 2, got %d", ErrInvalidConfig, c.SampleCount)
	case c.Threshold <= 0 || math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0):
		return fmt.Errorf("%w: threshold must be a positive number, got %v", ErrInvalidConfig, c.Threshold)
	case c.SearchRadius < 0:
		return fmt.Errorf("%w: search_radius must not be negative, got %d", ErrInvalidConfig, c.SearchRadius)
	case c.MatchWorkers < 1:
		return fmt.Errorf("%w: match_workers must be at least 1, got %d", ErrInvalidConfig, c.MatchWorkers)
	case c.DisplayDurationMS < 0:
		return fmt.Errorf("%w: display_duration_ms must not be negative, got %d", ErrInvalidConfig, c.DisplayDurationMS)
	case c.MaxStrokePoints < 1:
		return fmt.Errorf("%w: max_stroke_points must be at least 1, got %d", ErrInvalidConfig, c.MaxStrokePoints)
	}
	return nil
}
