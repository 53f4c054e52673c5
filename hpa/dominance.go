// File: dominance.go
// Role: Transition dominance: the weak-dominance relation used to prune
//       redundant inter-cluster transitions.

package hpa

import "github.com/katalvlaran/clearpath/core"

// FindDominantTransition compares two inter-cluster transitions and
// returns the weakly dominant one, or nil when neither dominates.
//
// e1 weakly dominates e2 iff some capability c1 annotated on e1 is a
// subset of some capability c2 on e2 with clearance(c1) ≥ clearance(c2),
// and the abstract graph holds an equivalent detour through e1's
// endpoints admissible under (c2, clearance(c2)). The check is
// symmetric in argument order.
//
// Nil arguments, endpoints absent from the abstract graph, endpoints
// inside one cluster, or edges spanning different cluster pairs all
// yield nil. When the two transitions dominate each other (equal
// profiles with a full circuit), the one at the lower border offset
// wins; a residual tie resolves to the lower edge id.
func (a *Abstraction) FindDominantTransition(e1, e2 *core.Edge) *core.Edge {
	if e1 == nil || e2 == nil {
		return nil
	}
	if !a.interClusterPair(e1) || !a.interClusterPair(e2) {
		return nil
	}
	if !a.sameClusterPair(e1, e2) {
		return nil
	}
	d1 := a.dominates(e1, e2)
	d2 := a.dominates(e2, e1)
	switch {
	case d1 && d2:
		if borderOffsetLess(a.absg, e2, e1) {
			return e2
		}

		return e1
	case d1:
		return e1
	case d2:
		return e2
	}

	return nil
}

// interClusterPair reports whether e joins abstract nodes of two
// different clusters, with both endpoints present in the graph.
func (a *Abstraction) interClusterPair(e *core.Edge) bool {
	f, t := a.absg.Node(e.From), a.absg.Node(e.To)

	return f != nil && t != nil && f.ClusterID != t.ClusterID
}

// sameClusterPair reports whether both edges span the same unordered
// pair of clusters.
func (a *Abstraction) sameClusterPair(e1, e2 *core.Edge) bool {
	f1, t1 := a.absg.Node(e1.From).ClusterID, a.absg.Node(e1.To).ClusterID
	f2, t2 := a.absg.Node(e2.From).ClusterID, a.absg.Node(e2.To).ClusterID

	return (f1 == f2 && t1 == t2) || (f1 == t2 && t1 == f2)
}

// dominates reports whether e1 weakly dominates e2: a stricter-or-equal
// capability at no smaller clearance, plus an existing detour joining
// e2's endpoints through e1's under e2's profile.
func (a *Abstraction) dominates(e1, e2 *core.Edge) bool {
	// Pair each e2 endpoint with the e1 endpoint on the same side of
	// the border.
	f1, t1 := a.absg.Node(e1.From), a.absg.Node(e1.To)
	f2, t2 := a.absg.Node(e2.From), a.absg.Node(e2.To)
	if f1 == nil || t1 == nil || f2 == nil || t2 == nil {
		return false
	}
	near, far := f1, t1
	if f2.ClusterID != f1.ClusterID {
		near, far = t1, f1
	}
	for _, c1 := range e1.Capabilities() {
		for _, c2 := range e2.Capabilities() {
			if c1&c2 != c1 || e1.Clearance(c1) < e2.Clearance(c2) {
				continue
			}
			k2 := e2.Clearance(c2)
			if a.detourExists(f2.ID, near.ID, c2, k2) && a.detourExists(t2.ID, far.ID, c2, k2) {
				return true
			}
		}
	}

	return false
}

// detourExists reports whether from and to are the same node or joined
// by an edge admissible under (c, k).
func (a *Abstraction) detourExists(from, to int, c core.Capability, k int) bool {
	if from == to {
		return true
	}

	return a.absg.FindAnnotatedEdge(from, to, c, k, maxWeightAny) != nil
}

// borderOffsetLess orders two transitions along their shared border:
// lexicographically lower (minY, minX) endpoint coordinates first, edge
// id as the final tie-break.
func borderOffsetLess(g *core.Graph, e1, e2 *core.Edge) bool {
	y1, x1 := minEndpoint(g, e1)
	y2, x2 := minEndpoint(g, e2)
	if y1 != y2 {
		return y1 < y2
	}
	if x1 != x2 {
		return x1 < x2
	}

	return e1.ID < e2.ID
}

// minEndpoint returns the lexicographically smaller (y,x) coordinate of
// an edge's endpoints.
func minEndpoint(g *core.Graph, e *core.Edge) (int, int) {
	f, t := g.Node(e.From), g.Node(e.To)
	if f.Y < t.Y || (f.Y == t.Y && f.X < t.X) {
		return f.Y, f.X
	}

	return t.Y, t.X
}
