// Package classify labels a stroke with the closest stored template.
package classify

import (
	"math"
	"sort"
	"sync"

	"github.com/okian/sketchrec/internal/domain/elastic"
	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/internal/domain/normalize"
)

// DefaultThreshold is the distance a best match must stay under to be
// reported.
const DefaultThreshold = 20.0

// TemplateSource supplies the template snapshot to compare against.
type TemplateSource interface {
	All() []model.Template
}

// Distancer computes the elastic distance between two normalized sequences.
type Distancer interface {
	Distance(a, b model.Sequence) float64
}

// Classifier matches strokes against a TemplateSource. It holds no state
// between calls and is safe for concurrent use.
type Classifier struct {
	source      TemplateSource
	matcher     Distancer
	threshold   float64
	sampleCount int
	workers     int
}

// New returns a Classifier reading templates from source.
func New(source TemplateSource, opts ...Option) *Classifier {
	c := &Classifier{
		source:      source,
		matcher:     elastic.New(),
		threshold:   DefaultThreshold,
		sampleCount: normalize.DefaultSampleCount,
		workers:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold returns the configured match threshold.
func (c *Classifier) Threshold() float64 { return c.threshold }

// Workers returns the configured parallelism.
func (c *Classifier) Workers() int { return c.workers }

// Classify labels stroke using the configured threshold.
func (c *Classifier) Classify(stroke model.Stroke) model.MatchResult {
	return c.ClassifyWithThreshold(stroke, c.threshold)
}

// ClassifyWithThreshold labels stroke with the template of lowest distance,
// provided that distance is strictly below threshold. Otherwise the label is
// empty and Cost still reports the best distance. Equal distances keep the
// template that comes first in the snapshot. With no templates the result is
// ("", +Inf).
func (c *Classifier) ClassifyWithThreshold(stroke model.Stroke, threshold float64) model.MatchResult {
	templates := c.source.All()
	costs := c.costs(normalize.Normalize(stroke, c.sampleCount), templates)

	best := model.MatchResult{Cost: math.Inf(1)}
	bestIdx := -1
	for i, cost := range costs {
		if cost < best.Cost {
			best.Cost = cost
			bestIdx = i
		}
	}
	if bestIdx >= 0 && best.Cost < threshold {
		best.Label = templates[bestIdx].Label
	}
	return best
}

// Rank returns every template with its distance to stroke, closest first.
// Equal distances keep snapshot order.
func (c *Classifier) Rank(stroke model.Stroke) []model.Candidate {
	templates := c.source.All()
	costs := c.costs(normalize.Normalize(stroke, c.sampleCount), templates)

	out := make([]model.Candidate, len(templates))
	for i, t := range templates {
		out[i] = model.Candidate{Label: t.Label, Cost: costs[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

// costs returns the distance from query to each template, indexed like
// templates.
func (c *Classifier) costs(query model.Sequence, templates []model.Template) []float64 {
	costs := make([]float64, len(templates))
	workers := c.workers
	if workers > len(templates) {
		workers = len(templates)
	}
	if workers <= 1 {
		for i, t := range templates {
			costs[i] = c.matcher.Distance(query, t.Sequence)
		}
		return costs
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(templates); i += workers {
				costs[i] = c.matcher.Distance(query, templates[i].Sequence)
			}
		}(w)
	}
	wg.Wait()
	return costs
}
