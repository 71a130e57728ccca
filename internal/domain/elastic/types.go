package elastic

// DefaultRadius widens a projected path by one cell on each side.
const DefaultRadius = 1

// Coord is one cell (I into the first sequence, J into the second) of a
// warping path.
type Coord struct {
	I int
	J int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithRadius sets how many cells the projected path is widened by at each
// refinement level. Negative values are ignored.
func WithRadius(radius int) Option {
	return func(m *Matcher) {
		if radius >= 0 {
			m.radius = radius
		}
	}
}

// step records which predecessor produced a cell's cumulative cost.
type step uint8

const (
	stepStart step = iota
	stepDiag
	stepUp
	stepLeft
)

// corridor holds, for every row i, the inclusive column range [lo[i], hi[i]]
// that the alignment may visit.
type corridor struct {
	lo []int
	hi []int
}

func (c corridor) contains(i, j int) bool {
	return i >= 0 && i < len(c.lo) && j >= c.lo[i] && j <= c.hi[i]
}

// fullCorridor spans the whole n×m grid.
func fullCorridor(n, m int) corridor {
	c := corridor{lo: make([]int, n), hi: make([]int, n)}
	for i := range c.hi {
		c.hi[i] = m - 1
	}
	return c
}
