// Package elastic computes a warp-tolerant distance between two point
// sequences.
//
// The distance approximates Dynamic Time Warping (DTW) with Euclidean point
// cost. Exact DTW fills the whole n×m grid; here the search is coarsened
// first and refined afterwards:
//
//  1. Both sequences are halved by averaging consecutive pairs until one of
//     them is shorter than radius+2 points.
//  2. The coarsest pair is aligned exactly.
//  3. The coarse warping path is widened by radius cells, projected onto the
//     next finer grid (every coarse cell becomes a 2×2 block) and DTW is
//     solved again inside that corridor only.
//  4. Step 3 repeats until the corridor spans the original sequences.
//
// Recurrence used at every level:
//
//	cost(0,0) = d(0,0)
//	cost(i,j) = d(i,j) + min(cost(i-1,j-1), cost(i-1,j), cost(i,j-1))
//
// Ties between predecessors resolve diagonal first, then up (i-1,j), then
// left (i,j-1), so identical inputs produce identical costs and paths.
//
// The result is a distance, not a metric: it is non-negative and zero for
// identical sequences but the triangle inequality does not hold in general.
//
// Complexity per level is O(n·radius) instead of O(n·m).
package elastic
