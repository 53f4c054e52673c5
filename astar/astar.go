// File: astar.go
// Role: Annotated A* search: validation, runner, relaxation, and the
//       lazy-decrease-key priority queue.

package astar

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/katalvlaran/clearpath/core"
)

// FindPath computes the cheapest path from node id from to node id to
// in g, expanding only edges admissible under the configured
// (capability, clearance). The octile heuristic on node coordinates is
// admissible and consistent, so the returned path is optimal among
// admissible paths.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. Both endpoints must exist in g (ErrNodeNotFound).
//  3. With a corridor configured, both endpoints must lie inside it
//     (ErrNoPath; the corridor bounds every reachable tile).
//
// Returns ErrNoPath when the goal is unreachable under the query, and
// the context error when cancelled between expansions.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func FindPath(g *core.Graph, from, to int, opts ...Option) (core.Path, error) {
	// 1) Build Options from defaults plus functional overrides.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate graph and endpoints.
	if g == nil {
		return nil, ErrNilGraph
	}
	src, dst := g.Node(from), g.Node(to)
	if src == nil || dst == nil {
		return nil, ErrNodeNotFound
	}

	// 3) Endpoints outside the corridor can never be reached.
	if cfg.Corridor != nil &&
		(!cfg.Corridor.Contains(src.X, src.Y) || !cfg.Corridor.Contains(dst.X, dst.Y)) {
		return nil, ErrNoPath
	}

	// 4) Reset statistics and stamp the run start.
	if cfg.Stats != nil {
		cfg.Stats.reset()
	}
	start := time.Now()

	// 5) Initialize runner state and execute the main loop.
	r := &runner{
		g:       g,
		options: cfg,
		goal:    dst,
		gScore:  map[int]float64{from: 0},
		cameBy:  make(map[int]int),
		closed:  make(map[int]bool),
	}
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: from, f: core.Octile(src.X, src.Y, dst.X, dst.Y)})

	found, err := r.process(from, to)
	if cfg.Stats != nil {
		cfg.Stats.SearchTime = time.Since(start)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoPath
	}

	return r.rebuild(from, to), nil
}

// runner holds the mutable state for a single FindPath execution.
type runner struct {
	g       *core.Graph
	options Options
	goal    *core.Node
	gScore  map[int]float64 // node id → best-known cost from source
	cameBy  map[int]int     // node id → edge id used to reach it
	closed  map[int]bool    // node id → cost finalized
	pq      nodePQ
}

// process runs the A* loop until the goal is finalized or the open set
// drains. Honors cancellation between expansions.
func (r *runner) process(from, to int) (bool, error) {
	cfg := r.options
	for r.pq.Len() > 0 {
		// Cancellation gate between expansions; the caller (hpa) still
		// guarantees endpoint removal on this exit path.
		if cfg.Ctx != nil {
			select {
			case <-cfg.Ctx.Done():
				return false, fmt.Errorf("astar: search cancelled: %w", cfg.Ctx.Err())
			default:
			}
		}

		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.closed[u] {
			continue // stale lazy-decrease-key entry
		}
		r.closed[u] = true
		if u == to {
			return true, nil
		}
		if err := r.relax(u); err != nil {
			return false, err
		}
		if cfg.Stats != nil {
			cfg.Stats.NodesExpanded++
			r.trackPeak()
		}
	}

	return false, nil
}

// relax attempts to improve the cost of every neighbor of u reachable
// through an edge admissible under (capability, clearance).
func (r *runner) relax(u int) error {
	cfg := r.options
	edges, err := r.g.Neighbors(u)
	if err != nil {
		return fmt.Errorf("astar: neighbors of %d: %w", u, err)
	}
	for _, e := range edges {
		v := e.Other(u)
		if cfg.Stats != nil {
			cfg.Stats.NodesTouched++
		}
		// Admissibility gate: the annotated clearance decides.
		if e.Clearance(cfg.Capability) < cfg.Clearance {
			continue
		}
		if r.closed[v] {
			continue
		}
		vn := r.g.Node(v)
		if cfg.Corridor != nil && !cfg.Corridor.Contains(vn.X, vn.Y) {
			continue
		}
		newG := r.gScore[u] + e.Weight
		if old, ok := r.gScore[v]; ok && newG >= old {
			continue
		}
		r.gScore[v] = newG
		r.cameBy[v] = e.ID
		heap.Push(&r.pq, &nodeItem{
			id: v,
			f:  newG + core.Octile(vn.X, vn.Y, r.goal.X, r.goal.Y),
		})
	}

	return nil
}

// trackPeak updates PeakMemory with the current open+closed set size.
func (r *runner) trackPeak() {
	if size := r.pq.Len() + len(r.closed); size > r.options.Stats.PeakMemory {
		r.options.Stats.PeakMemory = size
	}
}

// rebuild walks cameBy from the goal back to the source and returns the
// node sequence in forward order.
func (r *runner) rebuild(from, to int) core.Path {
	var rev core.Path
	cur := to
	for cur != from {
		rev = append(rev, r.g.Node(cur))
		e := r.g.Edge(r.cameBy[cur])
		cur = e.Other(cur)
	}
	rev = append(rev, r.g.Node(from))

	return rev.Reverse()
}

// nodeItem represents a node and its f-score in the open set.
type nodeItem struct {
	id int
	f  float64
}

// nodePQ is a min-heap of *nodeItem ordered by f ascending, using the
// lazy-decrease-key approach: improved nodes are pushed again and stale
// entries are skipped when popped (checked via closed).
type nodePQ []*nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less defines the comparison: smaller f → higher priority.
func (pq nodePQ) Less(i, j int) bool { return pq[i].f < pq[j].f }

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

// Pop removes and returns the smallest element from the heap.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
