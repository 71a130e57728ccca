package repository

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/internal/domain/normalize"
	"github.com/okian/sketchrec/pkg/metrics"
)

// Copy-on-write template store.
//
// Readers load an immutable snapshot through an atomic pointer and never
// block. Writers serialize on mu, build a fresh snapshot and publish it, so a
// reader sees either the old or the new entry for a label, never a partial one.

// snapshot is never mutated after it is published.
type snapshot struct {
	templates []model.Template
	index     map[string]int
}

func emptySnapshot() *snapshot {
	return &snapshot{index: map[string]int{}}
}

// clone copies the slice and index; sequences are shared since they are
// immutable.
func (s *snapshot) clone() *snapshot {
	out := &snapshot{
		templates: make([]model.Template, len(s.templates)),
		index:     make(map[string]int, len(s.index)),
	}
	copy(out.templates, s.templates)
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}

var _ Store = (*TemplateStore)(nil)

// TemplateStore is the in-memory, concurrency-safe template set.
type TemplateStore struct {
	mu          sync.Mutex
	current     atomic.Pointer[snapshot]
	sampleCount int
}

// NewTemplateStore returns an empty store.
func NewTemplateStore(opts ...Option) *TemplateStore {
	s := &TemplateStore{sampleCount: normalize.DefaultSampleCount}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(emptySnapshot())
	return s
}

// SampleCount returns the length raw strokes are normalized to.
func (s *TemplateStore) SampleCount() int { return s.sampleCount }

// Load replaces the store contents with entries, normalizing raw strokes.
// Two entries with the same label fail the whole load with ErrDuplicateLabel;
// an empty label fails with ErrEmptyLabel. On failure nothing changes.
func (s *TemplateStore) Load(entries []Entry) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	next := &snapshot{
		templates: make([]model.Template, 0, len(entries)),
		index:     make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Label == "" {
			metrics.RecordErrorByComponent("repository", "empty_label")
			return ErrEmptyLabel
		}
		if _, dup := next.index[e.Label]; dup {
			metrics.RecordErrorByComponent("repository", "duplicate_label")
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, e.Label)
		}
		seq := e.Sequence.Clone()
		if e.Sequence == nil {
			seq = normalize.Normalize(e.Stroke, s.sampleCount)
		}
		next.index[e.Label] = len(next.templates)
		next.templates = append(next.templates, model.Template{Label: e.Label, Sequence: seq})
	}

	s.mu.Lock()
	s.current.Store(next)
	s.mu.Unlock()

	metrics.UpdateTemplatesTotal(len(next.templates))
	return nil
}

// Upsert inserts or overwrites the template for label. An overwrite keeps the
// label's position in All. The sequence is copied.
func (s *TemplateStore) Upsert(label string, seq model.Sequence) error {
	if label == "" {
		metrics.RecordErrorByComponent("repository", "empty_label")
		return ErrEmptyLabel
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	t := model.Template{Label: label, Sequence: seq.Clone()}

	s.mu.Lock()
	next := s.current.Load().clone()
	if i, ok := next.index[label]; ok {
		next.templates[i] = t
	} else {
		next.index[label] = len(next.templates)
		next.templates = append(next.templates, t)
	}
	s.current.Store(next)
	s.mu.Unlock()

	metrics.RecordTemplateUpsert()
	metrics.UpdateTemplatesTotal(len(next.templates))
	return nil
}

// UpsertStroke normalizes stroke and upserts it under label.
func (s *TemplateStore) UpsertStroke(label string, stroke model.Stroke) error {
	return s.Upsert(label, normalize.Normalize(stroke, s.sampleCount))
}

// All returns the current snapshot in insertion order. The returned slice may
// be modified by the caller; the sequences inside must not be.
func (s *TemplateStore) All() []model.Template {
	snap := s.current.Load()
	out := make([]model.Template, len(snap.templates))
	copy(out, snap.templates)
	return out
}

// Get returns a copy of the sequence stored for label.
func (s *TemplateStore) Get(label string) (model.Sequence, bool) {
	snap := s.current.Load()
	i, ok := snap.index[label]
	if !ok {
		return nil, false
	}
	return snap.templates[i].Sequence.Clone(), true
}

// Remove deletes label and reports whether it was present.
func (s *TemplateStore) Remove(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	i, ok := cur.index[label]
	if !ok {
		return false
	}
	next := &snapshot{
		templates: make([]model.Template, 0, len(cur.templates)-1),
		index:     make(map[string]int, len(cur.index)-1),
	}
	next.templates = append(next.templates, cur.templates[:i]...)
	next.templates = append(next.templates, cur.templates[i+1:]...)
	for j, t := range next.templates {
		next.index[t.Label] = j
	}
	s.current.Store(next)

	metrics.RecordTemplateRemoval()
	metrics.UpdateTemplatesTotal(len(next.templates))
	return true
}

// Len returns the number of templates.
func (s *TemplateStore) Len() int {
	return len(s.current.Load().templates)
}
