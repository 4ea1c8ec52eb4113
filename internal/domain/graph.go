package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// UnnamedStreet is the street name used for edges without a name tag.
const UnnamedStreet = "Unnamed Road"

// DefaultRoadClass is used for edges without a road class tag.
const DefaultRoadClass = "unclassified"

var (
	ErrUnknownNode   = errors.New("edge references unknown node")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrDuplicateEdge = errors.New("duplicate edge key")
)

type NodeID int64

// EdgeID is the dense index of an edge inside its Graph.
type EdgeID int

// An intersection or dead end of the road network.
type Node struct {
	ID    NodeID
	Coord Coordinates
}

// A road segment between two nodes.
// Parallel segments between the same pair are told apart by Key.
type Edge struct {
	ID        EdgeID
	From      NodeID
	To        NodeID
	Key       int
	LengthM   float64
	Name      string
	RoadClass string
	// Weight is the estimated number of addresses served by the segment.
	Weight float64
	// Directed marks a one-way segment that may only be driven From -> To.
	Directed bool
}

// Other returns the endpoint of e that is not n.
func (e Edge) Other(n NodeID) NodeID {
	if e.From == n {
		return e.To
	}
	return e.From
}

// Graph is the filtered, weighted road network for one job.
// It is immutable after construction and safe for concurrent reads.
type Graph struct {
	nodes    map[NodeID]Node
	nodeIDs  []NodeID
	edges    []Edge
	incident map[NodeID][]EdgeID
}

// NewGraph validates nodes and edges and builds the adjacency index.
// Edge IDs are reassigned to their position in edges.
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes:    make(map[NodeID]Node, len(nodes)),
		nodeIDs:  make([]NodeID, 0, len(nodes)),
		edges:    make([]Edge, 0, len(edges)),
		incident: make(map[NodeID][]EdgeID, len(nodes)),
	}

	for _, n := range nodes {
		if _, ok := g.nodes[n.ID]; ok {
			return nil, fmt.Errorf("new graph: node %d: %w", n.ID, ErrDuplicateNode)
		}
		g.nodes[n.ID] = n
		g.nodeIDs = append(g.nodeIDs, n.ID)
	}
	slices.Sort(g.nodeIDs)

	type pairKey struct {
		from, to NodeID
		key      int
	}
	seen := make(map[pairKey]struct{}, len(edges))

	for i, e := range edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, fmt.Errorf("new graph: edge %d->%d: node %d: %w", e.From, e.To, e.From, ErrUnknownNode)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, fmt.Errorf("new graph: edge %d->%d: node %d: %w", e.From, e.To, e.To, ErrUnknownNode)
		}
		if e.LengthM < 0 || e.Weight < 0 {
			return nil, fmt.Errorf("new graph: edge %d->%d: length and weight must be non-negative", e.From, e.To)
		}

		pk := pairKey{from: e.From, to: e.To, key: e.Key}
		if _, ok := seen[pk]; ok {
			return nil, fmt.Errorf("new graph: edge %d->%d key=%d: %w", e.From, e.To, e.Key, ErrDuplicateEdge)
		}
		seen[pk] = struct{}{}

		e.ID = EdgeID(i)
		if strings.TrimSpace(e.Name) == "" {
			e.Name = UnnamedStreet
		}
		if strings.TrimSpace(e.RoadClass) == "" {
			e.RoadClass = DefaultRoadClass
		}

		g.edges = append(g.edges, e)
		g.incident[e.From] = append(g.incident[e.From], e.ID)
		if e.To != e.From {
			g.incident[e.To] = append(g.incident[e.To], e.ID)
		}
	}

	return g, nil
}

func (g *Graph) NumNodes() int { return len(g.nodeIDs) }

func (g *Graph) NumEdges() int { return len(g.edges) }

// NodeIDs returns all node ids in ascending order. The slice must not be modified.
func (g *Graph) NodeIDs() []NodeID { return g.nodeIDs }

func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edges returns all edges indexed by EdgeID. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// Incident returns the ids of edges touching n, in ascending order.
func (g *Graph) Incident(n NodeID) []EdgeID { return g.incident[n] }

// EdgeMidpoint is the straight-line midpoint of the edge's endpoints.
func (g *Graph) EdgeMidpoint(id EdgeID) Coordinates {
	e := g.edges[id]
	return g.nodes[e.From].Coord.Midpoint(g.nodes[e.To].Coord)
}

// Metric returns the raw balancing quantity of an edge.
func (g *Graph) Metric(id EdgeID, by BalanceBy) float64 {
	if by == BalanceByLength {
		return g.edges[id].LengthM
	}
	return g.edges[id].Weight
}

func (g *Graph) TotalWeight() float64 {
	var total float64
	for _, e := range g.edges {
		total += e.Weight
	}
	return total
}

func (g *Graph) TotalLength() float64 {
	var total float64
	for _, e := range g.edges {
		total += e.LengthM
	}
	return total
}

// Filter returns a new graph holding only the edges accepted by keep
// and the nodes they touch.
func (g *Graph) Filter(keep func(Edge) bool) *Graph {
	edges := make([]Edge, 0, len(g.edges))
	used := make(map[NodeID]struct{})
	for _, e := range g.edges {
		if !keep(e) {
			continue
		}
		edges = append(edges, e)
		used[e.From] = struct{}{}
		used[e.To] = struct{}{}
	}

	nodes := make([]Node, 0, len(used))
	for _, id := range g.nodeIDs {
		if _, ok := used[id]; ok {
			nodes = append(nodes, g.nodes[id])
		}
	}

	// Inputs come from a valid graph, so construction cannot fail.
	out, _ := NewGraph(nodes, edges)
	return out
}

// WithWeights returns a copy of the graph whose edge weights are replaced by fn.
func (g *Graph) WithWeights(fn func(Edge) float64) *Graph {
	edges := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		e.Weight = max(fn(e), 0)
		edges[i] = e
	}

	nodes := make([]Node, 0, len(g.nodeIDs))
	for _, id := range g.nodeIDs {
		nodes = append(nodes, g.nodes[id])
	}

	out, _ := NewGraph(nodes, edges)
	return out
}
