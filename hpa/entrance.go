// File: entrance.go
// Role: Entrance discovery along shared cluster borders, transition
//       placement per quality mode, and intra-cluster wiring through
//       corridor-restricted annotated A*.

package hpa

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/clearpath/astar"
	"github.com/katalvlaran/clearpath/core"
)

// BuildEntrances discovers every inter-cluster entrance, promotes the
// chosen transitions into the abstract graph with cached ground paths,
// and wires each cluster's abstract nodes internally.
//
// Steps, per cluster in id order:
//  1. Walk the shared border with the right neighbor, then the bottom
//     neighbor, so every adjacent pair is processed exactly once.
//  2. Per capability, split the border into maximal entrances: runs of
//     tile pairs traversable on both sides.
//  3. Per entrance and candidate clearance (largest first), place one
//     or two transitions by quality mode and install them, skipping
//     any transition an existing one dominates.
//
// After all borders, every cluster wires each pair of its abstract
// nodes with the cheapest intra-cluster path per admissible
// (capability, clearance), caching every created edge's path.
//
// Returns ErrNotBuilt when BuildClusters has not run.
// Complexity: dominated by intra-cluster searches,
// O(Σ_K |parents(K)|² × |subsets| × S² log S).
func (a *Abstraction) BuildEntrances() error {
	if len(a.clusters) == 0 {
		return ErrNotBuilt
	}
	for _, c := range a.clusters {
		right := a.clusterAt(c.OriginX+c.Width, c.OriginY)
		if right != nil {
			a.buildBorderEntrances(c, right, true)
		}
		down := a.clusterAt(c.OriginX, c.OriginY+c.Height)
		if down != nil {
			a.buildBorderEntrances(c, down, false)
		}
	}
	for _, c := range a.clusters {
		if err := a.buildIntraClusterEdges(c); err != nil {
			return err
		}
	}

	return nil
}

// clusterAt returns the cluster owning tile (x,y), or nil off-map.
func (a *Abstraction) clusterAt(x, y int) *Cluster {
	m := a.ground.Map()
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return nil
	}
	cols := (m.Width + a.clusterSize - 1) / a.clusterSize

	return a.clusters[(y/a.clusterSize)*cols+x/a.clusterSize]
}

// borderPair is one position along a shared border: the two facing
// ground nodes and the position's offset from the border start.
type borderPair struct {
	from, to *core.Node
	offset   int
}

// buildBorderEntrances walks the border between two adjacent clusters
// and installs transitions for every entrance found. vertical selects
// the geometry: true for a left|right pair, false for a top/bottom one.
func (a *Abstraction) buildBorderEntrances(from, to *Cluster, vertical bool) {
	pairs := a.borderPairs(from, to, vertical)
	for _, c := range core.Capabilities() {
		run := make([]borderPair, 0, len(pairs))
		flush := func() {
			if len(run) > 0 {
				a.buildEntranceTransitions(run, c)
			}
			run = run[:0]
		}
		for _, p := range pairs {
			if p.from != nil && p.to != nil &&
				c.Admits(p.from.Terrain) && c.Admits(p.to.Terrain) {
				run = append(run, p)
				continue
			}
			flush()
		}
		flush()
	}
}

// borderPairs lists the facing tile pairs along the shared border in
// offset order. Missing nodes (obstacles) stay nil so entrance runs
// break on them.
func (a *Abstraction) borderPairs(from, to *Cluster, vertical bool) []borderPair {
	var pairs []borderPair
	if vertical {
		x := from.OriginX + from.Width - 1
		for y := from.OriginY; y < from.OriginY+from.Height; y++ {
			pairs = append(pairs, borderPair{
				from:   a.ground.NodeAt(x, y),
				to:     a.ground.NodeAt(x+1, y),
				offset: y - from.OriginY,
			})
		}

		return pairs
	}
	y := from.OriginY + from.Height - 1
	for x := from.OriginX; x < from.OriginX+from.Width; x++ {
		pairs = append(pairs, borderPair{
			from:   a.ground.NodeAt(x, y),
			to:     a.ground.NodeAt(x, y+1),
			offset: x - from.OriginX,
		})
	}

	return pairs
}

// pairClearance is the transition clearance at one border position: the
// minimum of the two facing tiles' clearance under c.
func pairClearance(p borderPair, c core.Capability) int {
	v := p.from.Clearance(c)
	if w := p.to.Clearance(c); w < v {
		v = w
	}

	return v
}

// buildEntranceTransitions places transitions for one maximal entrance
// under capability c. Candidate clearances run from the entrance's
// maximum down to 1 so that weaker same-position transitions collapse
// into the stronger edge already installed.
func (a *Abstraction) buildEntranceTransitions(entrance []borderPair, c core.Capability) {
	maxK := 0
	for _, p := range entrance {
		if v := pairClearance(p, c); v > maxK {
			maxK = v
		}
	}
	for k := maxK; k >= 1; k-- {
		eligible := entrance[:0:0]
		for _, p := range entrance {
			if pairClearance(p, c) >= k {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 {
			continue
		}
		if a.quality != LowQuality && len(entrance) >= 2*k {
			a.addTransition(eligible[0], c, k)
			if len(eligible) > 1 {
				a.addTransition(eligible[len(eligible)-1], c, k)
			}
			continue
		}
		a.addTransition(eligible[len(eligible)/2], c, k)
	}
}

// addTransition promotes one border position into the abstract graph as
// an inter-cluster edge annotated (c, k), unless an existing transition
// between the same cluster pair dominates it. The two-node ground path
// is cached for the created edge.
func (a *Abstraction) addTransition(p borderPair, c core.Capability, k int) {
	// An already-installed edge between the same endpoints with equal or
	// better clearance makes this one redundant; a weaker annotation on
	// the same tile step is raised in place rather than duplicated.
	fromID := a.ensureAbstract(p.from)
	toID := a.ensureAbstract(p.to)
	if e := a.absg.FindEdge(fromID, toID); e != nil {
		if e.Clearance(c) < k {
			e.SetClearance(c, k)
		}

		return
	}
	candidate := &core.Edge{From: fromID, To: toID}
	candidate.SetClearance(c, k)
	if a.dominatedByExisting(candidate, c, k) {
		return
	}
	e, err := a.absg.AddEdge(fromID, toID, 1.0)
	if err != nil {
		return
	}
	e.SetClearance(c, k)
	a.AddPathToCache(e, core.Path{p.from, p.to})
}

// dominatedByExisting reports whether any installed inter-cluster edge
// between the same cluster pair weakly dominates the candidate.
func (a *Abstraction) dominatedByExisting(candidate *core.Edge, c core.Capability, k int) bool {
	for _, e := range a.absg.Edges() {
		if a.interClusterPair(e) && a.dominates(e, candidate) {
			return true
		}
	}

	return false
}

// ensureAbstract returns the abstract node materializing ground node g,
// creating and registering it on first use.
func (a *Abstraction) ensureAbstract(g *core.Node) int {
	if g.Parent != core.NoParent {
		return g.Parent
	}
	abs := core.NewNode(g.X, g.Y, g.Terrain)
	abs.AbstractionLevel = 1
	abs.Parent = g.ID
	abs.ClusterID = g.ClusterID
	id, _ := a.absg.AddNode(abs)
	g.Parent = id
	if c := a.Cluster(g.ClusterID); c != nil {
		c.addParent(id)
	}

	return id
}

// buildIntraClusterEdges connects every pair of a cluster's abstract
// nodes with the cheapest corridor-restricted path per admissible
// (capability, clearance). Paths of equal cost for increasing clearance
// raise the existing edge's annotation instead of duplicating it.
// Unreachable pairs are skipped without error.
func (a *Abstraction) buildIntraClusterEdges(k *Cluster) error {
	corridor := k.Rect()
	for i := 0; i < len(k.Parents); i++ {
		for j := i + 1; j < len(k.Parents); j++ {
			if err := a.connectPair(k.Parents[i], k.Parents[j], corridor); err != nil {
				return err
			}
		}
	}

	return nil
}

// connectPair wires two abstract nodes of one cluster across every
// admissible capability and clearance.
func (a *Abstraction) connectPair(u, v int, corridor astar.Rect) error {
	gu := a.ground.Graph().Node(a.absg.Node(u).Parent)
	gv := a.ground.Graph().Node(a.absg.Node(v).Parent)
	byWeight := make(map[float64]*core.Edge)
	for _, c := range core.Capabilities() {
		if !c.Admits(gu.Terrain) || !c.Admits(gv.Terrain) {
			continue
		}
		maxK := gu.Clearance(c)
		if w := gv.Clearance(c); w < maxK {
			maxK = w
		}
		for clr := 1; clr <= maxK; clr++ {
			p, err := astar.FindPath(a.ground.Graph(), gu.ID, gv.ID,
				astar.WithCapability(c),
				astar.WithClearance(clr),
				astar.WithCorridor(corridor))
			if err != nil {
				// Unreachable under this or any larger clearance.
				if errIsNoPath(err) {
					break
				}

				return fmt.Errorf("hpa: intra-cluster wiring %d↔%d: %w", u, v, err)
			}
			w := p.Weight()
			if e, ok := byWeight[w]; ok {
				if e.Clearance(c) < clr {
					e.SetClearance(c, clr)
				}
				continue
			}
			e, err := a.absg.AddEdge(u, v, w)
			if err != nil {
				return err
			}
			e.SetClearance(c, clr)
			byWeight[w] = e
			a.AddPathToCache(e, p)
		}
	}

	return nil
}

// errIsNoPath reports whether a search failed only because the goal is
// unreachable, which is non-fatal during construction.
func errIsNoPath(err error) bool {
	return errors.Is(err, astar.ErrNoPath)
}

// maxWeightAny is the weight bound passed to FindAnnotatedEdge when any
// admissible edge will do.
const maxWeightAny = math.MaxFloat64
