// File: abstraction.go
// Role: The Abstraction engine: construction, options, cluster
//       decomposition, level accessors, heuristic, distance, and
//       query statistics.

package hpa

import (
	"time"

	"github.com/katalvlaran/clearpath/astar"
	"github.com/katalvlaran/clearpath/core"
	"github.com/katalvlaran/clearpath/grid"
)

// Options configures an Abstraction at construction.
type Options struct {
	// Quality selects transition placement per entrance.
	Quality Quality
}

// Option represents a functional option for NewAbstraction.
type Option func(*Options)

// WithQuality sets the abstraction quality (default HighQuality).
func WithQuality(q Quality) Option {
	return func(o *Options) { o.Quality = q }
}

// DefaultOptions returns construction defaults: HighQuality.
func DefaultOptions() Options {
	return Options{Quality: HighQuality}
}

// Abstraction is the two-level annotated cluster abstraction over one
// terrain map. Level 0 is the annotated ground graph; level 1 holds one
// node per transition endpoint plus, transiently, the query endpoints.
type Abstraction struct {
	ground *grid.Ground
	absg   *core.Graph

	clusterSize int
	quality     Quality
	clusters    []*Cluster

	// cache maps abstract edge id → concrete ground path, canonicalized
	// to start at the edge's From endpoint.
	cache map[int]core.Path

	// startID and goalID are the transient abstract node ids created by
	// the last insertion, NoParent when reused or not inserted.
	startID, goalID int

	// insertedGround remembers ground node ids whose Parent label the
	// last insertion set, for exact restoration on removal.
	insertedGround []int

	stats queryStats
}

// queryStats aggregates search effort across one insert/query cycle.
type queryStats struct {
	nodesExpanded int
	nodesTouched  int
	peakMemory    int
	searchTime    time.Duration
}

// add folds one search run into the aggregate.
func (q *queryStats) add(s *astar.Stats) {
	q.nodesExpanded += s.NodesExpanded
	q.nodesTouched += s.NodesTouched
	if s.PeakMemory > q.peakMemory {
		q.peakMemory = s.PeakMemory
	}
	q.searchTime += s.SearchTime
}

// NewAbstraction builds the annotated ground graph for m and prepares
// an empty level-1 graph. Returns ErrBadClusterSize when clusterSize
// is below 1, and the grid sentinels on a bad map.
// Complexity: O(W×H×|subsets|).
func NewAbstraction(m *grid.Map, clusterSize int, opts ...Option) (*Abstraction, error) {
	if clusterSize < 1 {
		return nil, ErrBadClusterSize
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	ground, err := grid.Build(m)
	if err != nil {
		return nil, err
	}

	return &Abstraction{
		ground:      ground,
		absg:        core.NewGraph(),
		clusterSize: clusterSize,
		quality:     cfg.Quality,
		cache:       make(map[int]core.Path),
		startID:     core.NoParent,
		goalID:      core.NoParent,
	}, nil
}

// AbstractGraph returns the graph at the given level: 0 for the ground
// graph, 1 for the abstract graph, nil otherwise.
func (a *Abstraction) AbstractGraph(level int) *core.Graph {
	switch level {
	case 0:
		return a.ground.Graph()
	case 1:
		return a.absg
	}

	return nil
}

// NodeFromMap returns the ground node for tile (x,y), or nil for
// obstacle or out-of-range coordinates.
func (a *Abstraction) NodeFromMap(x, y int) *core.Node {
	return a.ground.NodeAt(x, y)
}

// ClusterSize returns the construction cluster size parameter.
func (a *Abstraction) ClusterSize() int { return a.clusterSize }

// NumClusters returns the number of clusters after BuildClusters.
func (a *Abstraction) NumClusters() int { return len(a.clusters) }

// Cluster returns the cluster with id, or nil outside [0, NumClusters).
func (a *Abstraction) Cluster(id int) *Cluster {
	if id < 0 || id >= len(a.clusters) {
		return nil
	}

	return a.clusters[id]
}

// BuildClusters partitions the map into ⌈W/S⌉×⌈H/S⌉ clusters in
// row-major order and assigns every ground node its owning cluster.
// Border clusters are clipped to the map.
// Complexity: O(W×H).
func (a *Abstraction) BuildClusters(factory ClusterFactory) {
	if factory == nil {
		factory = DefaultClusterFactory{}
	}
	m := a.ground.Map()
	s := a.clusterSize
	a.clusters = a.clusters[:0]
	for oy := 0; oy < m.Height; oy += s {
		for ox := 0; ox < m.Width; ox += s {
			w, h := s, s
			if ox+w > m.Width {
				w = m.Width - ox
			}
			if oy+h > m.Height {
				h = m.Height - oy
			}
			c := factory.Create(len(a.clusters), ox, oy, w, h)
			a.clusters = append(a.clusters, c)
			for y := oy; y < oy+h; y++ {
				for x := ox; x < ox+w; x++ {
					if n := a.ground.NodeAt(x, y); n != nil {
						n.ClusterID = c.ID
					}
				}
			}
		}
	}
}

// Distance returns the total weight of a concrete path: the sum of its
// consecutive ground-edge weights.
func (a *Abstraction) Distance(p core.Path) float64 {
	return p.Weight()
}

// H returns the octile heuristic between two nodes of either level.
// Abstract endpoints resolve through their ground parent; ground nodes
// use their own coordinates. Returns ErrNilNode when either is nil.
func (a *Abstraction) H(x, y *core.Node) (float64, error) {
	if x == nil || y == nil {
		return 0, ErrNilNode
	}
	ax, ay, err := a.resolveCoords(x)
	if err != nil {
		return 0, err
	}
	bx, by, err := a.resolveCoords(y)
	if err != nil {
		return 0, err
	}

	return core.Octile(ax, ay, bx, by), nil
}

// resolveCoords maps a node to ground-tile coordinates, following the
// parent link for abstract nodes.
func (a *Abstraction) resolveCoords(n *core.Node) (int, int, error) {
	if n.AbstractionLevel == 0 {
		return n.X, n.Y, nil
	}
	g := a.ground.Graph().Node(n.Parent)
	if g == nil {
		return 0, 0, ErrNilNode
	}

	return g.X, g.Y, nil
}

// NodesExpanded returns the nodes expanded by the last query cycle.
func (a *Abstraction) NodesExpanded() int { return a.stats.nodesExpanded }

// NodesTouched returns the nodes touched by the last query cycle.
func (a *Abstraction) NodesTouched() int { return a.stats.nodesTouched }

// PeakMemory returns the largest open+closed set size seen by any
// search in the last query cycle.
func (a *Abstraction) PeakMemory() int { return a.stats.peakMemory }

// SearchTime returns the accumulated search time of the last query cycle.
func (a *Abstraction) SearchTime() time.Duration { return a.stats.searchTime }
