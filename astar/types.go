// Package astar defines configuration options, statistics, and sentinel
// errors for annotated A* search over a clearpath core.Graph.
//
// Annotated A* is plain A* with one extra gate: an edge may be relaxed
// only if its clearance under the query capability meets the agent's
// required clearance. The octile heuristic stays admissible because
// annotations only remove edges, never shorten them.
//
// Complexity:
//
//	– Time:  O((V + E) log V)   where V = |nodes|, E = |edges|
//	– Space: O(V + E) under lazy decrease-key.
//
// Options:
//
//	– WithCapability:  terrain subset the agent can traverse (default Ground).
//	– WithClearance:   required clearance ≥ 1 (default 1).
//	– WithCorridor:    restrict expansion to a tile rectangle.
//	– WithContext:     honor cancellation between expansions.
//	– WithStats:       collect per-query search statistics.
//
// Errors (sentinel):
//
//	– ErrNilGraph      if the provided graph pointer is nil.
//	– ErrNodeNotFound  if either endpoint id is absent from the graph.
//	– ErrNoPath        if no admissible path joins the endpoints.
//	– ErrBadClearance  panic message of WithClearance for a value < 1;
//	                   FindPath never returns it.
package astar

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/clearpath/core"
)

// Sentinel errors returned by FindPath.
var (
	// ErrNilGraph indicates that a nil *core.Graph was passed to FindPath.
	ErrNilGraph = errors.New("astar: graph is nil")

	// ErrNodeNotFound indicates that an endpoint id does not exist in the graph.
	ErrNodeNotFound = errors.New("astar: endpoint node not found in graph")

	// ErrNoPath indicates that no path admissible under the query
	// (capability, clearance) joins the endpoints.
	ErrNoPath = errors.New("astar: no admissible path between endpoints")

	// ErrBadClearance indicates that a clearance below 1 was requested;
	// every agent occupies at least one tile. WithClearance panics with
	// its message; FindPath does not return it.
	ErrBadClearance = errors.New("astar: clearance must be at least 1")
)

// Rect is an inclusive tile rectangle used to restrict a search to one
// cluster's area.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether tile (x,y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Stats accumulates effort counters for a single FindPath run. All
// counters are monotone non-decreasing within the run and reset when
// the run starts.
type Stats struct {
	// NodesExpanded counts nodes popped and relaxed.
	NodesExpanded int
	// NodesTouched counts every neighbor considered, admissible or not.
	NodesTouched int
	// PeakMemory tracks the maximum combined size of the open and
	// closed sets over the run.
	PeakMemory int
	// SearchTime is the wall-clock duration of the run.
	SearchTime time.Duration
}

// reset zeroes the counters at the start of a run.
func (s *Stats) reset() {
	s.NodesExpanded = 0
	s.NodesTouched = 0
	s.PeakMemory = 0
	s.SearchTime = 0
}

// Options configures the behavior of a FindPath run.
type Options struct {
	// Capability is the terrain subset the agent can traverse.
	Capability core.Capability
	// Clearance is the agent's required clearance, ≥ 1.
	Clearance int
	// Corridor, when non-nil, restricts expansion to tiles inside it.
	Corridor *Rect
	// Ctx allows cancellation between expansions.
	Ctx context.Context
	// Stats, when non-nil, receives the run's effort counters.
	Stats *Stats
}

// Option represents a functional option for configuring FindPath.
type Option func(*Options)

// WithCapability sets the terrain subset the agent can traverse.
func WithCapability(c core.Capability) Option {
	return func(o *Options) { o.Capability = c }
}

// WithClearance sets the agent's required clearance.
// Must pass a value ≥ 1; smaller values panic with the ErrBadClearance
// message.
func WithClearance(k int) Option {
	return func(o *Options) {
		if k < 1 {
			panic(ErrBadClearance.Error())
		}
		o.Clearance = k
	}
}

// WithCorridor restricts expansion to tiles inside r. Endpoints outside
// the corridor make the search fail with ErrNoPath.
func WithCorridor(r Rect) Option {
	return func(o *Options) { o.Corridor = &r }
}

// WithContext sets the context checked between expansions.
func WithContext(ctx context.Context) Option {
	return func(o *Options) { o.Ctx = ctx }
}

// WithStats directs the run's effort counters into s.
func WithStats(s *Stats) Option {
	return func(o *Options) { o.Stats = s }
}

// DefaultOptions returns an Options struct initialized with defaults:
// Ground capability, clearance 1, no corridor, background context,
// no statistics collection.
func DefaultOptions() Options {
	return Options{
		Capability: core.Ground,
		Clearance:  1,
		Corridor:   nil,
		Ctx:        context.Background(),
		Stats:      nil,
	}
}
