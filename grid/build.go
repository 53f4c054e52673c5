// File: build.go
// Role: Annotated ground graph construction: one node per traversable
//       tile, 4- and 8-neighbor edges (including across terrain
//       boundaries), per-subset tile clearance, per-capability edge
//       clearance with the diagonal corner-cut rule.

package grid

import (
	"github.com/katalvlaran/clearpath/core"
)

// Ground is the annotated level-0 view of a Map: the graph itself plus
// the tile→node index. Immutable once built; safe for concurrent reads.
type Ground struct {
	m   *Map
	g   *core.Graph
	ids [][]int // ids[y][x] = node id, core.NoParent for obstacle tiles
}

// Build constructs the fully annotated ground graph for m.
//
// Steps:
//  1. Create one node per non-obstacle tile, row-major.
//  2. Connect every 4- and 8-neighbor pair of nodes, regardless of
//     terrain class on either side; whether a step is traversable is
//     the agent's decision, made per capability at search time.
//     Weights: 1 cardinal, √2 diagonal.
//  3. Annotate tile clearance per terrain subset, processed from
//     (W-1,H-1) down to (0,0) so each tile's three successors are final.
//  4. Annotate edge clearance per capability: the endpoint minimum,
//     with diagonal edges requiring both flanking cardinal tiles to
//     admit the capability (no corner-cutting across forbidden terrain).
//
// Complexity: O(W×H×|subsets|) time, O(W×H) memory.
func Build(m *Map) (*Ground, error) {
	if m == nil {
		return nil, ErrEmptyMap
	}
	g := core.NewGraph()
	ids := make([][]int, m.Height)

	// 1) Nodes for traversable tiles.
	for y := 0; y < m.Height; y++ {
		ids[y] = make([]int, m.Width)
		for x := 0; x < m.Width; x++ {
			t := m.TerrainAt(x, y)
			if t == core.Obstacle {
				ids[y][x] = core.NoParent
				continue
			}
			id, err := g.AddNode(core.NewNode(x, y, t))
			if err != nil {
				return nil, err
			}
			ids[y][x] = id
		}
	}

	gr := &Ground{m: m, g: g, ids: ids}

	// 2) Edges toward already-visited neighbors so each pair links once:
	//    west, north-west, north, north-east.
	offsets := [4][2]int{{-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			from := ids[y][x]
			if from == core.NoParent {
				continue
			}
			for _, d := range offsets {
				nx, ny := x+d[0], y+d[1]
				if !m.InBounds(nx, ny) || ids[ny][nx] == core.NoParent {
					continue
				}
				w := 1.0
				if d[0] != 0 && d[1] != 0 {
					w = core.Sqrt2
				}
				if _, err := g.AddEdge(from, ids[ny][nx], w); err != nil {
					return nil, err
				}
			}
		}
	}

	gr.annotateTiles()
	gr.annotateEdges()

	return gr, nil
}

// Map returns the terrain map the ground graph was built from.
func (gr *Ground) Map() *Map { return gr.m }

// Graph returns the annotated level-0 graph.
func (gr *Ground) Graph() *core.Graph { return gr.g }

// NodeAt returns the ground node for tile (x,y), or nil when the tile
// is an obstacle or out of bounds.
// Complexity: O(1).
func (gr *Ground) NodeAt(x, y int) *core.Node {
	if !gr.m.InBounds(x, y) || gr.ids[y][x] == core.NoParent {
		return nil
	}

	return gr.g.Node(gr.ids[y][x])
}

// annotateTiles computes clearance[s] for every node and every
// recognized terrain subset s. The recursion base is the bottom/right
// boundary: clearance 1 wherever the subset admits the tile. Interior
// tiles take 1 + min over the E, S, and SE successors.
func (gr *Ground) annotateTiles() {
	subsets := core.Capabilities()
	for x := gr.m.Width - 1; x >= 0; x-- {
		for y := gr.m.Height - 1; y >= 0; y-- {
			n := gr.NodeAt(x, y)
			if n == nil {
				continue
			}
			east := gr.NodeAt(x+1, y)
			south := gr.NodeAt(x, y+1)
			southeast := gr.NodeAt(x+1, y+1)
			for _, s := range subsets {
				if !s.Admits(n.Terrain) {
					n.SetClearance(s, 0)
					continue
				}
				if east == nil || south == nil || southeast == nil {
					n.SetClearance(s, 1)
					continue
				}
				min := east.Clearance(s)
				if v := south.Clearance(s); v < min {
					min = v
				}
				if v := southeast.Clearance(s); v < min {
					min = v
				}
				n.SetClearance(s, min+1)
			}
		}
	}
}

// annotateEdges derives each edge's clearance table from its endpoints.
// A diagonal step is only as good as its two flanking cardinal tiles:
// if either fails the capability, the diagonal is annotated 0 for it.
func (gr *Ground) annotateEdges() {
	for _, e := range gr.g.Edges() {
		a, b := gr.g.Node(e.From), gr.g.Node(e.To)
		diagonal := a.X != b.X && a.Y != b.Y
		for _, c := range core.Capabilities() {
			if diagonal && !gr.cornersAdmit(a, b, c) {
				e.SetClearance(c, 0)
				continue
			}
			min := a.Clearance(c)
			if v := b.Clearance(c); v < min {
				min = v
			}
			e.SetClearance(c, min)
		}
	}
}

// cornersAdmit reports whether both cardinal tiles flanking the
// diagonal a↔b admit capability c.
func (gr *Ground) cornersAdmit(a, b *core.Node, c core.Capability) bool {
	return c.Admits(gr.m.TerrainAt(a.X, b.Y)) && c.Admits(gr.m.TerrainAt(b.X, a.Y))
}
