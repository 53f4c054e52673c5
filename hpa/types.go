// Package hpa implements the two-level annotated cluster abstraction:
// cluster decomposition, entrance discovery with transition dominance
// pruning, the abstract-edge path cache, transient start/goal
// insertion, and hierarchical path queries.
//
// Construction is phased: NewAbstraction builds the annotated ground
// graph, BuildClusters partitions the map, and BuildEntrances promotes
// inter-cluster transitions into the abstract graph and wires clusters
// internally. After that, GetPath answers queries by splicing the
// endpoints into the abstract graph, searching it, and stitching the
// cached ground segments back together.
//
// Concurrency: the map, the ground graph's nodes and edges, and the
// cluster rectangles are fixed once built. A query mutates the abstract
// graph, the path cache, the owning clusters' Parents lists, and the
// Parent labels of the inserted ground nodes in place (removal undoes
// these changes), so concurrent GetPath calls against one
// Abstraction are not supported; callers wanting parallelism shard by
// map instance or serialize with a single write lock.
//
// Errors (sentinel):
//
//	– ErrNilNode                  a required node argument is nil/absent.
//	– ErrNonZeroAbstractionLevel  an endpoint is already abstract.
//	– ErrNotTraversable           an endpoint fails the query admissibility.
//	– ErrCacheMiss                an abstract edge has no cached path (fatal).
//	– ErrSegmentDiscontinuity     cached segments fail to join (fatal).
//	– ErrBadClusterSize           cluster size below 1 at construction.
//	– ErrNotBuilt                 a phase ran before its prerequisite.
package hpa

import (
	"errors"

	"github.com/katalvlaran/clearpath/astar"
)

// Sentinel errors for abstraction construction and queries.
var (
	// ErrNilNode indicates a nil or unknown node argument where one is required.
	ErrNilNode = errors.New("hpa: node is nil")

	// ErrNonZeroAbstractionLevel indicates an endpoint that is not a ground node.
	ErrNonZeroAbstractionLevel = errors.New("hpa: endpoint abstraction level is not zero")

	// ErrNotTraversable indicates an endpoint inadmissible under the
	// query's capability and clearance.
	ErrNotTraversable = errors.New("hpa: endpoint not traversable under query")

	// ErrCacheMiss indicates reconstruction required an abstract edge or
	// cached path that does not exist. Always an invariant violation.
	ErrCacheMiss = errors.New("hpa: no cached path for abstract edge")

	// ErrSegmentDiscontinuity indicates adjacent cached segments that do
	// not share their join node. Always an invariant violation.
	ErrSegmentDiscontinuity = errors.New("hpa: cached path segments do not join")

	// ErrBadClusterSize indicates a cluster size below 1.
	ErrBadClusterSize = errors.New("hpa: cluster size must be at least 1")

	// ErrNotBuilt indicates a construction phase ran out of order, such
	// as BuildEntrances before BuildClusters.
	ErrNotBuilt = errors.New("hpa: construction phase out of order")
)

// Quality selects how many transitions each entrance contributes.
// Higher quality keeps more transitions and yields better paths at the
// price of a larger abstract graph.
type Quality int

const (
	// HighQuality places a transition at each end of a sufficiently wide
	// entrance, falling back to the midpoint for narrow ones.
	HighQuality Quality = iota
	// MediumQuality currently matches HighQuality transition placement.
	MediumQuality
	// LowQuality always places a single transition at the entrance midpoint.
	LowQuality
)

// Cluster is one rectangle of the decomposition. It owns the abstract
// nodes whose ground parents lie inside it; Parents holds their ids in
// the level-1 graph, in creation order.
type Cluster struct {
	// ID is the cluster's index in row-major decomposition order.
	ID int
	// OriginX, OriginY is the top-left tile of the rectangle.
	OriginX, OriginY int
	// Width and Height never exceed the construction cluster size;
	// border clusters are clipped to the map.
	Width, Height int

	// Parents are abstract node ids owned by this cluster.
	Parents []int
}

// Rect returns the cluster's inclusive tile rectangle, the corridor for
// every search restricted to this cluster.
func (c *Cluster) Rect() astar.Rect {
	return astar.Rect{
		MinX: c.OriginX,
		MinY: c.OriginY,
		MaxX: c.OriginX + c.Width - 1,
		MaxY: c.OriginY + c.Height - 1,
	}
}

// Contains reports whether tile (x,y) lies inside the cluster.
func (c *Cluster) Contains(x, y int) bool {
	return c.Rect().Contains(x, y)
}

// addParent registers an abstract node id with the cluster.
func (c *Cluster) addParent(id int) {
	c.Parents = append(c.Parents, id)
}

// removeParent forgets an abstract node id, keeping creation order.
func (c *Cluster) removeParent(id int) {
	for i, p := range c.Parents {
		if p == id {
			c.Parents = append(c.Parents[:i], c.Parents[i+1:]...)

			return
		}
	}
}

// ClusterFactory produces Cluster instances during BuildClusters. It
// exists so tests can substitute instrumented clusters.
type ClusterFactory interface {
	// Create returns a cluster covering the given rectangle.
	Create(id, originX, originY, width, height int) *Cluster
}

// DefaultClusterFactory builds plain Clusters.
type DefaultClusterFactory struct{}

// Create implements ClusterFactory.
func (DefaultClusterFactory) Create(id, originX, originY, width, height int) *Cluster {
	return &Cluster{ID: id, OriginX: originX, OriginY: originY, Width: width, Height: height}
}
