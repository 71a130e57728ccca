// Package service ties the template store, the classifier and template
// persistence together behind the operations the HTTP API needs.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sketchrec/internal/adapters/repository"
	"github.com/okian/sketchrec/internal/adapters/templatefile"
	"github.com/okian/sketchrec/internal/domain/classify"
	"github.com/okian/sketchrec/internal/domain/elastic"
	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/internal/domain/normalize"
	"github.com/okian/sketchrec/pkg/logger"
	"github.com/okian/sketchrec/pkg/metrics"
)

// Defaults used when no option overrides them.
const (
	defaultDisplayDuration = 2500 * time.Millisecond
	defaultMaxStrokePoints = 10_000
)

// TemplateRepository persists raw template strokes.
type TemplateRepository interface {
	List(ctx context.Context) ([]templatefile.Record, error)
	Save(ctx context.Context, label string, stroke model.Stroke) error
	Delete(ctx context.Context, label string) error
}

// Recognition is the answer to one classification request.
type Recognition struct {
	RequestID string
	Result    model.MatchResult
	// Candidates holds the closest templates, best first, when requested.
	Candidates []model.Candidate
	// DisplayDuration is how long a client should show a recognized label.
	DisplayDuration time.Duration
	Threshold       float64
}

// Service implements the API dependencies for the recognizer.
type Service struct {
	mu sync.RWMutex

	store      *repository.TemplateStore
	classifier *classify.Classifier
	templates  TemplateRepository

	sampleCount     int
	threshold       float64
	searchRadius    int
	matchWorkers    int
	displayDuration time.Duration
	maxStrokePoints int

	started bool

	matched   atomic.Int64
	unmatched atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration. Without
// WithTemplateDir or WithTemplateRepository templates live in memory only.
func New(opts ...Option) *Service {
	s := &Service{
		sampleCount:     normalize.DefaultSampleCount,
		threshold:       classify.DefaultThreshold,
		searchRadius:    elastic.DefaultRadius,
		matchWorkers:    1,
		displayDuration: defaultDisplayDuration,
		maxStrokePoints: defaultMaxStrokePoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store and classifier and loads the persisted templates.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recognizer service...")

	store := repository.NewTemplateStore(repository.WithSampleCount(s.sampleCount))
	if err := s.load(ctx, store); err != nil {
		s.logger.Error(ctx, "failed to load templates", logger.Error(err))
		return err
	}

	s.store = store
	s.classifier = classify.New(store,
		classify.WithThreshold(s.threshold),
		classify.WithSampleCount(s.sampleCount),
		classify.WithMatcher(elastic.New(elastic.WithRadius(s.searchRadius))),
		classify.WithWorkers(s.matchWorkers),
	)
	s.started = true

	metrics.UpdateMatchWorkers(s.matchWorkers)
	s.logger.Info(ctx, "recognizer service started",
		logger.Int("templates", store.Len()),
		logger.Int("sampleCount", s.sampleCount),
		logger.Float64("threshold", s.threshold),
		logger.Int("searchRadius", s.searchRadius),
		logger.Int("matchWorkers", s.matchWorkers),
	)
	return nil
}

// load bulk-loads every persisted template into store.
func (s *Service) load(ctx context.Context, store *repository.TemplateStore) error {
	if s.templates == nil {
		return nil
	}
	records, err := s.templates.List(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	entries := make([]repository.Entry, len(records))
	for i, r := range records {
		entries[i] = repository.RawEntry(r.Label, r.Stroke)
	}
	if err := store.Load(entries); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	return nil
}

// Reload re-reads the persisted templates and swaps them in atomically.
func (s *Service) Reload(ctx context.Context) error {
	store, _, err := s.components()
	if err != nil {
		return err
	}
	if err := s.load(ctx, store); err != nil {
		s.logger.Error(ctx, "failed to reload templates", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "templates reloaded", logger.Int("templates", store.Len()))
	return nil
}

// Stop marks the service stopped. Classification fails until Start is
// called again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.store = nil
	s.classifier = nil
	s.logger.Info(context.Background(), "recognizer service stopped")
}

func (s *Service) components() (*repository.TemplateStore, *classify.Classifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.classifier, nil
}

// validateStroke rejects oversized strokes and non-finite coordinates.
func (s *Service) validateStroke(stroke model.Stroke) error {
	if len(stroke) > s.maxStrokePoints {
		return fmt.Errorf("%w: %d points, limit %d", ErrStrokeTooLarge, len(stroke), s.maxStrokePoints)
	}
	for i, p := range stroke {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %d is not finite", ErrInvalidStroke, i)
		}
	}
	return nil
}

// Classify labels stroke. A nil threshold uses the configured one. When top
// is positive the closest top templates are returned as candidates.
func (s *Service) Classify(ctx context.Context, stroke model.Stroke, threshold *float64, top int) (Recognition, error) {
	_, classifier, err := s.components()
	if err != nil {
		return Recognition{}, err
	}
	if err := s.validateStroke(stroke); err != nil {
		metrics.RecordErrorByComponent("service", "invalid_stroke")
		return Recognition{}, err
	}

	limit := s.threshold
	if threshold != nil {
		if *threshold <= 0 || math.IsNaN(*threshold) {
			return Recognition{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, *threshold)
		}
		limit = *threshold
	}

	rec := Recognition{
		RequestID:       logger.RequestID(ctx),
		DisplayDuration: s.displayDuration,
		Threshold:       limit,
	}
	if rec.RequestID == "" {
		rec.RequestID = uuid.NewString()
	}

	start := time.Now()
	if top > 0 {
		// The stable ranking puts the classification winner first.
		ranked := classifier.Rank(stroke)
		rec.Result = model.MatchResult{Cost: math.Inf(1)}
		if len(ranked) > 0 {
			rec.Result.Cost = ranked[0].Cost
			if ranked[0].Cost < limit {
				rec.Result.Label = ranked[0].Label
			}
		}
		if top < len(ranked) {
			ranked = ranked[:top]
		}
		rec.Candidates = ranked
	} else {
		rec.Result = classifier.ClassifyWithThreshold(stroke, limit)
	}
	elapsed := time.Since(start)

	s.record(rec.Result)
	metrics.RecordClassificationLatency(float64(elapsed.Microseconds()) / 1000)

	s.logger.Debug(ctx, "stroke classified",
		logger.Int("points", len(stroke)),
		logger.String("label", rec.Result.Label),
		logger.Float64("cost", rec.Result.Cost),
		logger.Bool("matched", rec.Result.Matched()),
		logger.Duration("elapsed", elapsed),
	)
	return rec, nil
}

func (s *Service) record(res model.MatchResult) {
	switch {
	case math.IsInf(res.Cost, 1):
		metrics.RecordClassification(metrics.OutcomeEmpty)
		s.unmatched.Add(1)
	case res.Matched():
		metrics.RecordClassification(metrics.OutcomeMatched)
		s.matched.Add(1)
	default:
		metrics.RecordClassification(metrics.OutcomeUnmatched)
		s.unmatched.Add(1)
	}
	metrics.RecordBestCost(res.Cost)
}

// SaveTemplate persists stroke under label and makes it available to
// classification. An existing template with the same label is replaced.
func (s *Service) SaveTemplate(ctx context.Context, label string, stroke model.Stroke) error {
	store, _, err := s.components()
	if err != nil {
		return err
	}
	if err := templatefile.ValidateLabel(label); err != nil {
		return err
	}
	if err := s.validateStroke(stroke); err != nil {
		return err
	}
	// A stroke without extent normalizes to the zero sequence, which every
	// single tap would match at cost 0.
	if normalize.IsZero(normalize.Normalize(stroke, s.sampleCount)) {
		return fmt.Errorf("%w: template %q has no extent", ErrInvalidStroke, label)
	}

	if s.templates != nil {
		if err := s.templates.Save(ctx, label, stroke); err != nil {
			s.logger.Error(ctx, "failed to persist template", logger.String("label", label), logger.Error(err))
			return err
		}
	}
	if err := store.UpsertStroke(label, stroke); err != nil {
		return err
	}

	s.logger.Info(ctx, "template saved", logger.String("label", label), logger.Int("points", len(stroke)))
	return nil
}

// DeleteTemplate removes label from memory and from persistence.
func (s *Service) DeleteTemplate(ctx context.Context, label string) error {
	store, _, err := s.components()
	if err != nil {
		return err
	}
	if err := templatefile.ValidateLabel(label); err != nil {
		return err
	}

	removed := store.Remove(label)
	if s.templates != nil {
		err := s.templates.Delete(ctx, label)
		switch {
		case errors.Is(err, templatefile.ErrTemplateNotFound):
		case err != nil:
			s.logger.Error(ctx, "failed to delete template file", logger.String("label", label), logger.Error(err))
			return err
		default:
			removed = true
		}
	}
	if !removed {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, label)
	}

	s.logger.Info(ctx, "template deleted", logger.String("label", label))
	return nil
}

// Templates returns the loaded templates in store order.
func (s *Service) Templates(_ context.Context) ([]model.Template, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.All(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"sampleCount":       s.sampleCount,
		"threshold":         s.threshold,
		"searchRadius":      s.searchRadius,
		"matchWorkers":      s.matchWorkers,
		"displayDurationMs": s.displayDuration.Milliseconds(),
		"persistent":        s.templates != nil,
		"matched":           s.matched.Load(),
		"unmatched":         s.unmatched.Load(),
	}
	if s.started {
		stats["templates"] = s.store.Len()
	}
	return stats
}
