package elastic

import (
	"math"

	"github.com/okian/sketchrec/internal/domain/model"
)

// Matcher computes coarse-to-fine warping distances. A Matcher holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	radius int
}

// New returns a Matcher with DefaultRadius unless overridden.
func New(opts ...Option) *Matcher {
	m := &Matcher{radius: DefaultRadius}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Radius returns the corridor radius in use.
func (m *Matcher) Radius() int { return m.radius }

// Distance returns the approximate warping distance between a and b.
//
// If exactly one sequence is empty no alignment exists and the distance is
// +Inf; two empty sequences are at distance 0.
func (m *Matcher) Distance(a, b model.Sequence) float64 {
	d, _ := m.Align(a, b)
	return d
}

// Align returns the distance together with the warping path, ordered from
// (0,0) to (len(a)-1, len(b)-1).
func (m *Matcher) Align(a, b model.Sequence) (float64, []Coord) {
	if len(a) == 0 || len(b) == 0 {
		if len(a) == len(b) {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return m.refine(a, b)
}

func (m *Matcher) refine(a, b model.Sequence) (float64, []Coord) {
	minSize := m.radius + 2
	if len(a) < minSize || len(b) < minSize {
		return align(a, b, fullCorridor(len(a), len(b)))
	}
	_, coarse := m.refine(halve(a), halve(b))
	return align(a, b, project(coarse, len(a), len(b), m.radius))
}

// Exact returns the full-grid DTW distance and path. It is the reference the
// coarse-to-fine search approximates.
func Exact(a, b model.Sequence) (float64, []Coord) {
	if len(a) == 0 || len(b) == 0 {
		if len(a) == len(b) {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return align(a, b, fullCorridor(len(a), len(b)))
}

// halve averages consecutive pairs. A trailing odd element is dropped.
func halve(s model.Sequence) model.Sequence {
	out := make(model.Sequence, len(s)/2)
	for i := range out {
		p, q := s[2*i], s[2*i+1]
		out[i] = model.Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
	}
	return out
}

// project widens a coarse path by radius cells and maps it onto an n×m grid.
// Every row of the result is non-empty, row 0 starts at column 0 and the last
// row ends at column m-1, so the terminal cell is always reachable.
func project(path []Coord, n, m, radius int) corridor {
	c := corridor{lo: make([]int, n), hi: make([]int, n)}
	for i := range c.lo {
		c.lo[i] = m
		c.hi[i] = -1
	}

	for _, cell := range path {
		jlo := max(2*(cell.J-radius), 0)
		jhi := min(2*(cell.J+radius)+1, m-1)
		if jlo > jhi {
			continue
		}
		for ci := cell.I - radius; ci <= cell.I+radius; ci++ {
			if ci < 0 {
				continue
			}
			for fi := 2 * ci; fi <= 2*ci+1 && fi < n; fi++ {
				c.lo[fi] = min(c.lo[fi], jlo)
				c.hi[fi] = max(c.hi[fi], jhi)
			}
		}
	}

	c.lo[0] = 0
	if c.hi[0] < 0 {
		c.hi[0] = 0
	}
	// Rows past the coarse grid (odd lengths with radius 0) inherit the
	// previous row and run to the last column.
	for i := 1; i < n; i++ {
		if c.hi[i] < 0 {
			c.lo[i], c.hi[i] = c.lo[i-1], m-1
		}
	}
	c.hi[n-1] = m - 1
	return c
}

// align solves DTW restricted to c and backtracks the optimal path.
func align(a, b model.Sequence, c corridor) (float64, []Coord) {
	n, m := len(a), len(b)
	inf := math.Inf(1)

	cost := make([][]float64, n)
	steps := make([][]step, n)
	at := func(i, j int) float64 {
		if !c.contains(i, j) {
			return inf
		}
		return cost[i][j-c.lo[i]]
	}

	for i := 0; i < n; i++ {
		width := c.hi[i] - c.lo[i] + 1
		cost[i] = make([]float64, width)
		steps[i] = make([]step, width)
		for j := c.lo[i]; j <= c.hi[i]; j++ {
			d := pointCost(a[i], b[j])
			k := j - c.lo[i]
			if i == 0 && j == 0 {
				cost[i][k] = d
				steps[i][k] = stepStart
				continue
			}
			best, dir := at(i-1, j-1), stepDiag
			if up := at(i-1, j); up < best {
				best, dir = up, stepUp
			}
			if left := at(i, j-1); left < best {
				best, dir = left, stepLeft
			}
			cost[i][k] = d + best
			steps[i][k] = dir
		}
	}

	total := at(n-1, m-1)
	return total, backtrack(steps, c, n-1, m-1)
}

func backtrack(steps [][]step, c corridor, i, j int) []Coord {
	path := make([]Coord, 0, i+j+1)
	for {
		if !c.contains(i, j) {
			return nil
		}
		path = append(path, Coord{I: i, J: j})
		switch steps[i][j-c.lo[i]] {
		case stepStart:
			for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
				path[l], path[r] = path[r], path[l]
			}
			return path
		case stepDiag:
			i, j = i-1, j-1
		case stepUp:
			i--
		case stepLeft:
			j--
		}
	}
}

func pointCost(p, q model.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
