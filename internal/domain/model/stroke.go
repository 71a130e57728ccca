// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
)

// Point is a 2-D coordinate. Its JSON form is the pair [x, y].
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as a two-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element array into the point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: expected [x, y], got %d values", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Stroke is the ordered sequence of samples captured while the pointer is held
// down. Order is temporal and significant.
type Stroke []Point

// Sequence is a fixed-length, centered and scale-normalized stroke.
// Values are shared read-only; copy before mutating.
type Sequence []Point

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Clone returns an independent copy of s.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// Template pairs a label with its normalized reference sequence.
type Template struct {
	Label    string
	Sequence Sequence
}

// MatchResult is the outcome of a classification. An empty Label means no
// template was close enough; Cost still carries the best distance seen.
type MatchResult struct {
	Label string
	Cost  float64
}

// Matched reports whether the result names a template.
func (r MatchResult) Matched() bool { return r.Label != "" }

// Candidate is the distance from a query to one template.
type Candidate struct {
	Label string
	Cost  float64
}
