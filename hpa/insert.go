// File: insert.go
// Role: Transient start/goal insertion into the abstract graph, and the
//       exact-restoration removal that undoes it.

package hpa

import (
	"fmt"

	"github.com/katalvlaran/clearpath/astar"
	"github.com/katalvlaran/clearpath/core"
)

// InsertStartAndGoalNodes splices the query endpoints into the abstract
// graph under the query's (capability, clearance).
//
// For each endpoint: a ground node already materialized by an abstract
// node is reused and the corresponding id stays -1; otherwise a new
// abstract node is created, the ground node's parent label is set, the
// node is registered with its cluster, and it is connected to every
// abstract node of the cluster reachable by corridor-restricted
// annotated A*, with each new edge's path cached.
//
// Preconditions, checked in order for start then goal:
//   - non-nil (ErrNilNode),
//   - abstraction level zero (ErrNonZeroAbstractionLevel),
//   - present in the ground graph (ErrNilNode),
//   - traversable under (capability, clearance) (ErrNotTraversable).
//
// Every insertion must be paired with RemoveStartAndGoalNodes on all
// exit paths; the pair restores the abstract graph and cache exactly.
func (a *Abstraction) InsertStartAndGoalNodes(start, goal *core.Node, c core.Capability, clearance int) error {
	a.stats = queryStats{}
	for _, n := range []*core.Node{start, goal} {
		if n == nil {
			return ErrNilNode
		}
		if n.AbstractionLevel != 0 {
			return ErrNonZeroAbstractionLevel
		}
		if a.ground.Graph().Node(n.ID) != n {
			return ErrNilNode
		}
		if !c.Admits(n.Terrain) || n.Clearance(c) < clearance {
			return fmt.Errorf("%w: (%d,%d) under capability %d clearance %d",
				ErrNotTraversable, n.X, n.Y, c, clearance)
		}
	}

	startID, err := a.insertEndpoint(start, c, clearance)
	a.startID = startID
	if err != nil {
		a.RemoveStartAndGoalNodes()

		return err
	}
	goalID, err := a.insertEndpoint(goal, c, clearance)
	a.goalID = goalID
	if err != nil {
		a.RemoveStartAndGoalNodes()

		return err
	}

	return nil
}

// insertEndpoint materializes one endpoint, returning the new abstract
// node id or NoParent when an existing abstract node was reused.
func (a *Abstraction) insertEndpoint(g *core.Node, c core.Capability, clearance int) (int, error) {
	if g.Parent != core.NoParent {
		return core.NoParent, nil
	}
	abs := core.NewNode(g.X, g.Y, g.Terrain)
	abs.AbstractionLevel = 1
	abs.Parent = g.ID
	abs.ClusterID = g.ClusterID
	id, err := a.absg.AddNode(abs)
	if err != nil {
		return core.NoParent, err
	}
	g.Parent = id
	a.insertedGround = append(a.insertedGround, g.ID)
	cluster := a.Cluster(g.ClusterID)
	if cluster == nil {
		return id, nil
	}
	cluster.addParent(id)
	corridor := cluster.Rect()
	stats := &astar.Stats{}
	for _, q := range cluster.Parents {
		if q == id {
			continue
		}
		target := a.ground.Graph().Node(a.absg.Node(q).Parent)
		p, err := astar.FindPath(a.ground.Graph(), g.ID, target.ID,
			astar.WithCapability(c),
			astar.WithClearance(clearance),
			astar.WithCorridor(corridor),
			astar.WithStats(stats))
		a.stats.add(stats)
		if err != nil {
			if errIsNoPath(err) {
				continue // unreachable neighbor, not an error
			}

			return id, err
		}
		e, err := a.absg.AddEdge(id, q, p.Weight())
		if err != nil {
			return id, err
		}
		e.SetClearance(c, clearance)
		a.AddPathToCache(e, p)
	}

	return id, nil
}

// StartID returns the abstract node id created for the last inserted
// start, or -1 when the start reused an existing abstract node.
func (a *Abstraction) StartID() int { return a.startID }

// GoalID returns the abstract node id created for the last inserted
// goal, or -1 when the goal reused an existing abstract node.
func (a *Abstraction) GoalID() int { return a.goalID }

// RemoveStartAndGoalNodes deletes exactly the abstract nodes the last
// insertion created, every abstract edge incident to them, and their
// cache entries; resets the affected ground parent labels; and restores
// startID and goalID to -1. After removal the abstract graph and cache
// match their pre-insertion state exactly.
func (a *Abstraction) RemoveStartAndGoalNodes() {
	for _, id := range []int{a.startID, a.goalID} {
		if id == core.NoParent {
			continue
		}
		if n := a.absg.Node(id); n != nil {
			if edges, err := a.absg.Neighbors(id); err == nil {
				for _, e := range edges {
					a.DropPathFromCache(e)
				}
			}
			if c := a.Cluster(n.ClusterID); c != nil {
				c.removeParent(id)
			}
			_ = a.absg.RemoveNode(id)
		}
	}
	for _, gid := range a.insertedGround {
		if g := a.ground.Graph().Node(gid); g != nil {
			g.Parent = core.NoParent
		}
	}
	a.insertedGround = a.insertedGround[:0]
	a.startID = core.NoParent
	a.goalID = core.NoParent
}
