// Package normalize turns raw strokes into fixed-length, centered and
// scale-normalized sequences so strokes of different size, position and
// sample count can be compared.
package normalize

import (
	"math"

	"github.com/okian/sketchrec/internal/domain/model"
)

// DefaultSampleCount is the resampled length used when none is configured.
const DefaultSampleCount = 64

// Normalize centers stroke on its centroid, divides every coordinate by the
// largest absolute coordinate and resamples the result to exactly n points.
//
// Strokes with fewer than two points, or whose points all coincide, yield the
// all-zero sequence of length n. A non-positive n means DefaultSampleCount.
func Normalize(stroke model.Stroke, n int) model.Sequence {
	if n <= 0 {
		n = DefaultSampleCount
	}
	if len(stroke) < 2 {
		return Zero(n)
	}

	var cx, cy float64
	for _, p := range stroke {
		cx += p.X
		cy += p.Y
	}
	count := float64(len(stroke))
	cx /= count
	cy /= count

	centered := make([]model.Point, len(stroke))
	var scale float64
	for i, p := range stroke {
		c := model.Point{X: p.X - cx, Y: p.Y - cy}
		centered[i] = c
		scale = math.Max(scale, math.Max(math.Abs(c.X), math.Abs(c.Y)))
	}
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return Zero(n)
	}

	out := make(model.Sequence, n)
	for i := 0; i < n; i++ {
		c := centered[sampleIndex(i, n, len(centered))]
		out[i] = model.Point{X: c.X / scale, Y: c.Y / scale}
	}
	return out
}

// sampleIndex maps output slot i of n onto an index of a length-l input.
// Positions are evenly spaced from 0 to l-1 inclusive and truncated toward
// zero; integer arithmetic keeps the choice exact.
func sampleIndex(i, n, l int) int {
	if n == 1 {
		return 0
	}
	return i * (l - 1) / (n - 1)
}

// Zero returns the all-zero sequence of length n.
func Zero(n int) model.Sequence {
	if n <= 0 {
		n = DefaultSampleCount
	}
	return make(model.Sequence, n)
}

// IsZero reports whether every point of seq is the origin.
func IsZero(seq model.Sequence) bool {
	for _, p := range seq {
		if p.X != 0 || p.Y != 0 {
			return false
		}
	}
	return true
}
