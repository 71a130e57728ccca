// Package shapes generates deterministic synthetic strokes. They seed the
// default template set and drive tests and benchmarks.
package shapes

import (
	"math"
	"math/rand"

	"github.com/okian/sketchrec/internal/domain/model"
)

// Canonical catalogue parameters.
const (
	catalogPoints = 64
	catalogSize   = 200
	zigzagTeeth   = 3
)

// Shape is a named stroke.
type Shape struct {
	Name   string
	Stroke model.Stroke
}

// Catalog returns the canonical shapes in a fixed order.
func Catalog() []Shape {
	return []Shape{
		{Name: "circle", Stroke: Circle(catalogPoints, catalogSize/2)},
		{Name: "line", Stroke: Line(catalogPoints, catalogSize)},
		{Name: "square", Stroke: Square(catalogPoints, catalogSize)},
		{Name: "triangle", Stroke: Triangle(catalogPoints, catalogSize)},
		{Name: "zigzag", Stroke: Zigzag(catalogPoints, catalogSize, catalogSize/2, zigzagTeeth)},
	}
}

// Circle samples n points of a circle centered at the origin, counter-clockwise
// from angle 0. The end point is not repeated.
func Circle(n int, radius float64) model.Stroke {
	out := make(model.Stroke, n)
	for i := range out {
		t := 2 * math.Pi * float64(i) / float64(n)
		out[i] = model.Point{X: radius * math.Cos(t), Y: radius * math.Sin(t)}
	}
	return out
}

// Line samples n evenly spaced points from the origin along the x axis.
func Line(n int, length float64) model.Stroke {
	return polyline([]model.Point{{X: 0, Y: 0}, {X: length, Y: 0}}, n)
}

// Square walks the closed outline of an axis-aligned square.
func Square(n int, side float64) model.Stroke {
	return polyline([]model.Point{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}, {X: 0, Y: 0},
	}, n)
}

// Triangle walks the closed outline of an equilateral triangle.
func Triangle(n int, side float64) model.Stroke {
	h := side * math.Sqrt(3) / 2
	return polyline([]model.Point{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side / 2, Y: h}, {X: 0, Y: 0},
	}, n)
}

// Zigzag draws teeth V shapes spanning width, alternating between 0 and height.
func Zigzag(n int, width, height float64, teeth int) model.Stroke {
	if teeth < 1 {
		teeth = 1
	}
	segments := 2 * teeth
	vertices := make([]model.Point, segments+1)
	for i := range vertices {
		y := 0.0
		if i%2 == 1 {
			y = height
		}
		vertices[i] = model.Point{X: width * float64(i) / float64(segments), Y: y}
	}
	return polyline(vertices, n)
}

// Transform scales every point by k and then shifts it by (dx, dy).
func Transform(stroke model.Stroke, k, dx, dy float64) model.Stroke {
	out := make(model.Stroke, len(stroke))
	for i, p := range stroke {
		out[i] = model.Point{X: p.X*k + dx, Y: p.Y*k + dy}
	}
	return out
}

// Rotate turns the stroke by angle radians about the origin.
func Rotate(stroke model.Stroke, angle float64) model.Stroke {
	sin, cos := math.Sincos(angle)
	out := make(model.Stroke, len(stroke))
	for i, p := range stroke {
		out[i] = model.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}
	return out
}

// Jitter adds uniform noise in [-amplitude, amplitude] to both coordinates.
// The same seed always produces the same stroke.
func Jitter(stroke model.Stroke, amplitude float64, seed int64) model.Stroke {
	r := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible noise, not security sensitive
	out := make(model.Stroke, len(stroke))
	for i, p := range stroke {
		out[i] = model.Point{
			X: p.X + (r.Float64()*2-1)*amplitude,
			Y: p.Y + (r.Float64()*2-1)*amplitude,
		}
	}
	return out
}

// polyline samples n points evenly by arc length along the given vertices,
// including both ends.
func polyline(vertices []model.Point, n int) model.Stroke {
	if n <= 0 || len(vertices) == 0 {
		return nil
	}
	if n == 1 || len(vertices) == 1 {
		out := make(model.Stroke, n)
		for i := range out {
			out[i] = vertices[0]
		}
		return out
	}

	cumulative := make([]float64, len(vertices))
	for i := 1; i < len(vertices); i++ {
		a, b := vertices[i-1], vertices[i]
		cumulative[i] = cumulative[i-1] + math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	total := cumulative[len(cumulative)-1]

	out := make(model.Stroke, n)
	seg := 1
	for i := range out {
		d := total * float64(i) / float64(n-1)
		for seg < len(vertices)-1 && cumulative[seg] < d {
			seg++
		}
		a, b := vertices[seg-1], vertices[seg]
		span := cumulative[seg] - cumulative[seg-1]
		t := 0.0
		if span > 0 {
			t = (d - cumulative[seg-1]) / span
		}
		out[i] = model.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
	}
	return out
}
