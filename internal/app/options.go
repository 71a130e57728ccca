package service

import (
	"time"

	"github.com/okian/sketchrec/internal/adapters/templatefile"
	"github.com/okian/sketchrec/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTemplateDir persists templates as files in dir.
func WithTemplateDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.templates = templatefile.New(dir)
		}
	}
}

// WithTemplateRepository replaces the template persistence backend.
func WithTemplateRepository(repo TemplateRepository) Option {
	return func(s *Service) {
		if repo != nil {
			s.templates = repo
		}
	}
}

// WithSampleCount sets the length strokes are normalized to.
func WithSampleCount(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.sampleCount = n
		}
	}
}

// WithThreshold sets the default match threshold.
func WithThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithSearchRadius sets the elastic matcher's corridor radius.
func WithSearchRadius(radius int) Option {
	return func(s *Service) {
		if radius >= 0 {
			s.searchRadius = radius
		}
	}
}

// WithMatchWorkers sets how many goroutines compare templates per request.
func WithMatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.matchWorkers = n
		}
	}
}

// WithDisplayDuration sets how long clients should show a recognized label.
func WithDisplayDuration(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.displayDuration = d
		}
	}
}

// WithMaxStrokePoints caps the number of points accepted per stroke.
func WithMaxStrokePoints(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxStrokePoints = n
		}
	}
}
