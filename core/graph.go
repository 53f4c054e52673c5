// File: graph.go
// Role: Node and edge lifecycle: AddNode/Node/RemoveNode,
//       AddEdge/Edge/RemoveEdge, counts and sorted listings.
// Determinism:
//   - Node and edge ids are monotonic from 0 and never reused.
//   - Nodes() and Edges() return ascending-id order.

package core

import "sort"

// Graph is an arena of annotated nodes and undirected annotated edges.
//
// One Graph instance backs each abstraction level. The ground graph's
// nodes and edges are fixed after construction, but endpoint insertion
// writes the Parent label of the ground nodes it materializes; the
// abstract graph is mutated by endpoint insertion and must be accessed
// exclusively (see the hpa package for the query discipline).
type Graph struct {
	nextNodeID int
	nextEdgeID int

	nodes map[int]*Node
	edges map[int]*Edge

	// adjacency[from][to] = edge ids joining the pair, mirrored both ways.
	adjacency map[int]map[int]map[int]struct{}
}

// NewGraph creates an empty Graph.
// Complexity: O(1).
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[int]*Node),
		edges:     make(map[int]*Edge),
		adjacency: make(map[int]map[int]map[int]struct{}),
	}
}

// AddNode stores n in the arena, assigns its ID, and returns it.
// Returns ErrNilNode when n is nil.
// Complexity: O(1).
func (g *Graph) AddNode(n *Node) (int, error) {
	if n == nil {
		return NoParent, ErrNilNode
	}
	n.ID = g.nextNodeID
	g.nextNodeID++
	g.nodes[n.ID] = n

	return n.ID, nil
}

// Node returns the node with the given id, or nil when absent.
// Complexity: O(1).
func (g *Graph) Node(id int) *Node {
	return g.nodes[id]
}

// RemoveNode deletes the node and every edge incident to it.
// Returns ErrNodeNotFound when the id is absent. Ids of surviving
// nodes and edges are unaffected; the removed ids are never reused.
// Complexity: O(deg) plus adjacency cleanup.
func (g *Graph) RemoveNode(id int) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrNodeNotFound
	}
	// Collect incident edge ids first; unlinkEdge mutates adjacency.
	incident := make([]int, 0, 8)
	for _, bucket := range g.adjacency[id] {
		for eid := range bucket {
			incident = append(incident, eid)
		}
	}
	for _, eid := range incident {
		if e, ok := g.edges[eid]; ok {
			g.unlinkEdge(e)
			delete(g.edges, eid)
		}
	}
	delete(g.adjacency, id)
	delete(g.nodes, id)

	return nil
}

// AddEdge creates an undirected edge between two existing nodes,
// assigns its ID, and returns it.
// Returns ErrNodeNotFound when either endpoint is absent.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(from, to int, weight float64) (*Edge, error) {
	if _, ok := g.nodes[from]; !ok {
		return nil, ErrNodeNotFound
	}
	if _, ok := g.nodes[to]; !ok {
		return nil, ErrNodeNotFound
	}
	e := &Edge{
		ID:        g.nextEdgeID,
		From:      from,
		To:        to,
		Weight:    weight,
		clearance: make(map[Capability]int, 3),
	}
	g.nextEdgeID++
	g.edges[e.ID] = e
	g.linkEdge(e)

	return e, nil
}

// Edge returns the edge with the given id, or nil when absent.
// Complexity: O(1).
func (g *Graph) Edge(id int) *Edge {
	return g.edges[id]
}

// RemoveEdge deletes one edge and its adjacency mirror.
// Returns ErrEdgeNotFound when the id is absent.
// Complexity: O(1).
func (g *Graph) RemoveEdge(id int) error {
	e, ok := g.edges[id]
	if !ok {
		return ErrEdgeNotFound
	}
	g.unlinkEdge(e)
	delete(g.edges, id)

	return nil
}

// NodeCount returns the number of live nodes.
// Complexity: O(1).
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of live edges.
// Complexity: O(1).
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all nodes sorted by id ascending.
// Complexity: O(V log V).
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Edges returns all edges sorted by id ascending.
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// linkEdge records e in the adjacency index, mirrored both directions.
func (g *Graph) linkEdge(e *Edge) {
	g.ensureAdjacency(e.From, e.To)[e.ID] = struct{}{}
	if e.From != e.To {
		g.ensureAdjacency(e.To, e.From)[e.ID] = struct{}{}
	}
}

// unlinkEdge removes e from both directions of the adjacency index and
// prunes emptied buckets so neighbor iteration stays tight.
func (g *Graph) unlinkEdge(e *Edge) {
	g.dropAdjacency(e.From, e.To, e.ID)
	if e.From != e.To {
		g.dropAdjacency(e.To, e.From, e.ID)
	}
}

func (g *Graph) ensureAdjacency(from, to int) map[int]struct{} {
	inner, ok := g.adjacency[from]
	if !ok {
		inner = make(map[int]map[int]struct{})
		g.adjacency[from] = inner
	}
	bucket, ok := inner[to]
	if !ok {
		bucket = make(map[int]struct{}, 1)
		inner[to] = bucket
	}

	return bucket
}

func (g *Graph) dropAdjacency(from, to, eid int) {
	inner, ok := g.adjacency[from]
	if !ok {
		return
	}
	bucket, ok := inner[to]
	if !ok {
		return
	}
	delete(bucket, eid)
	if len(bucket) == 0 {
		delete(inner, to)
	}
	if len(inner) == 0 {
		delete(g.adjacency, from)
	}
}
