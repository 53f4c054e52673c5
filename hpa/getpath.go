// File: getpath.go
// Role: Hierarchical path queries: insert endpoints, search the
//       abstract graph, stitch cached segments, remove endpoints on
//       every exit path.

package hpa

import (
	"context"
	"fmt"

	"github.com/katalvlaran/clearpath/astar"
	"github.com/katalvlaran/clearpath/core"
)

// QueryOptions configures one GetPath call.
type QueryOptions struct {
	// Capability is the terrain subset the agent can traverse.
	Capability core.Capability
	// Clearance is the agent's required clearance, ≥ 1.
	Clearance int
	// Ctx is honored between search iterations; endpoint removal still
	// runs when it fires.
	Ctx context.Context
}

// QueryOption represents a functional option for GetPath and Pathable.
type QueryOption func(*QueryOptions)

// WithCapability sets the query capability (default Ground).
func WithCapability(c core.Capability) QueryOption {
	return func(o *QueryOptions) { o.Capability = c }
}

// WithClearance sets the query clearance (default 1).
func WithClearance(k int) QueryOption {
	return func(o *QueryOptions) { o.Clearance = k }
}

// WithContext sets the query context.
func WithContext(ctx context.Context) QueryOption {
	return func(o *QueryOptions) { o.Ctx = ctx }
}

// DefaultQueryOptions returns query defaults: Ground capability,
// clearance 1, background context.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Capability: core.Ground,
		Clearance:  1,
		Ctx:        context.Background(),
	}
}

// GetPath answers a shortest-path query between two ground nodes.
//
// Steps:
//  1. Insert both endpoints into the abstract graph; removal is
//     deferred so it runs on every exit path.
//  2. Run annotated A* on the abstract graph between the endpoints'
//     abstract nodes.
//  3. Resolve each abstract step to its cached ground segment via
//     FindAnnotatedEdge, reversing segments stored in the opposite
//     direction and eliding the shared join node.
//
// An unreachable goal is not an error: GetPath returns (nil, nil).
// A missing abstract edge or cache entry surfaces ErrCacheMiss and a
// failed join ErrSegmentDiscontinuity; both mean a broken abstraction
// invariant, and removal has still run.
func (a *Abstraction) GetPath(start, goal *core.Node, opts ...QueryOption) (core.Path, error) {
	cfg := DefaultQueryOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if start != nil && start == goal {
		return core.Path{start}, nil
	}
	if err := a.InsertStartAndGoalNodes(start, goal, cfg.Capability, cfg.Clearance); err != nil {
		return nil, err
	}
	defer a.RemoveStartAndGoalNodes()

	absStart := start.Parent
	absGoal := goal.Parent
	stats := &astar.Stats{}
	abstract, err := astar.FindPath(a.absg, absStart, absGoal,
		astar.WithCapability(cfg.Capability),
		astar.WithClearance(cfg.Clearance),
		astar.WithContext(cfg.Ctx),
		astar.WithStats(stats))
	a.stats.add(stats)
	if err != nil {
		if errIsNoPath(err) {
			return nil, nil // SearchFailed is recovered; removal still runs.
		}

		return nil, err
	}

	return a.stitch(abstract, cfg.Capability, cfg.Clearance)
}

// stitch resolves an abstract path into one concrete ground path by
// concatenating the cached segment of every abstract step.
func (a *Abstraction) stitch(abstract core.Path, c core.Capability, clearance int) (core.Path, error) {
	total := make(core.Path, 0, len(abstract)*2)
	for i := 0; i+1 < len(abstract); i++ {
		u, v := abstract[i], abstract[i+1]
		segment, err := a.segment(u, v, c, clearance)
		if err != nil {
			return nil, err
		}
		if len(total) == 0 {
			total = append(total, segment...)
			continue
		}
		// Segments share their join node; keep it once.
		if total[len(total)-1].ID != segment[0].ID {
			return nil, fmt.Errorf("%w: between abstract nodes %d and %d",
				ErrSegmentDiscontinuity, u.ID, v.ID)
		}
		total = append(total, segment[1:]...)
	}

	return total, nil
}

// segment returns the cached ground path for one abstract step, cloned
// and oriented from u to v.
func (a *Abstraction) segment(u, v *core.Node, c core.Capability, clearance int) (core.Path, error) {
	e := a.absg.FindAnnotatedEdge(u.ID, v.ID, c, clearance, maxWeightAny)
	if e == nil {
		return nil, fmt.Errorf("%w: no admissible edge between abstract nodes %d and %d",
			ErrCacheMiss, u.ID, v.ID)
	}
	cached := a.PathFromCache(e)
	if cached == nil {
		return nil, fmt.Errorf("%w: edge %d", ErrCacheMiss, e.ID)
	}
	segment := cached.Clone()
	// Cached paths start at the edge's From endpoint; reverse when the
	// traversal runs the other way.
	if segment[0].ID != u.Parent {
		segment = segment.Reverse()
	}

	return segment, nil
}

// Pathable reports whether an admissible path joins two ground nodes
// under the query options. It probes the annotated ground graph
// directly and never mutates abstract state.
func (a *Abstraction) Pathable(from, to *core.Node, opts ...QueryOption) bool {
	cfg := DefaultQueryOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if from == nil || to == nil {
		return false
	}
	c, k := cfg.Capability, cfg.Clearance
	if !c.Admits(from.Terrain) || !c.Admits(to.Terrain) ||
		from.Clearance(c) < k || to.Clearance(c) < k {
		return false
	}
	_, err := astar.FindPath(a.ground.Graph(), from.ID, to.ID,
		astar.WithCapability(c),
		astar.WithClearance(k),
		astar.WithContext(cfg.Ctx))

	return err == nil
}
