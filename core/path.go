// File: path.go
// Role: Path value type (clone/reverse/weight) and the octile metric
//       shared by searches and heuristics.

package core

import "math"

// Sqrt2 is the cost of one diagonal step on the grid.
const Sqrt2 = math.Sqrt2

// Octile returns the octile distance between two tiles: the exact cost
// of an obstacle-free 8-connected walk, D·(dx+dy) + (D₂−2D)·min(dx,dy)
// with D=1, D₂=√2. Admissible and consistent on every clearpath graph.
// Complexity: O(1).
func Octile(x1, y1, x2, y2 int) float64 {
	dx := math.Abs(float64(x1 - x2))
	dy := math.Abs(float64(y1 - y2))

	return dx + dy + (Sqrt2-2)*math.Min(dx, dy)
}

// Path is a non-empty ordered sequence of nodes. Consecutive nodes are
// grid neighbors on a ground path; on an abstract path they are
// transition endpoints.
type Path []*Node

// Clone returns a copy of the path sharing node pointers. The sequence
// may be reversed or spliced freely without disturbing the original.
// Complexity: O(n).
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)

	return out
}

// Reverse returns a new path visiting the same nodes in opposite order.
// reverse(reverse(p)) reproduces p exactly.
// Complexity: O(n).
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, n := range p {
		out[len(p)-1-i] = n
	}

	return out
}

// Weight returns the total cost of the path: the sum of octile step
// costs between consecutive nodes, which on a ground path equals the
// sum of its edge weights (1 cardinal, √2 diagonal).
// Complexity: O(n).
func (p Path) Weight() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += Octile(p[i-1].X, p[i-1].Y, p[i].X, p[i].Y)
	}

	return total
}
