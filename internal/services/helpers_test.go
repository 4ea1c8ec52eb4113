package services

import (
	"fmt"
	"testing"

	"flyer-route-service/internal/algo"
	"flyer-route-service/internal/domain"
)

const step = 0.001

func mustGraph(t *testing.T, nodes []domain.Node, edges []domain.Edge) *domain.Graph {
	t.Helper()
	g, err := domain.NewGraph(nodes, edges)
	if err != nil {
		t.Fatalf("new graph: %v", err)
	}
	return g
}

func node(id int64, lat, lon float64) domain.Node {
	return domain.Node{ID: domain.NodeID(id), Coord: domain.Coordinates{Lat: lat, Lon: lon}}
}

func edge(from, to int64, length, weight float64, name string) domain.Edge {
	return domain.Edge{
		From:    domain.NodeID(from),
		To:      domain.NodeID(to),
		LengthM: length,
		Weight:  weight,
		Name:    name,
	}
}

// squareGraph is a 100 m block: 1-2 and 2-3 on Main St, 3-4 and 4-1 on Oak Ave.
func squareGraph(t *testing.T) *domain.Graph {
	return mustGraph(t,
		[]domain.Node{
			node(1, 40, -75),
			node(2, 40, -75+step),
			node(3, 40+step, -75+step),
			node(4, 40+step, -75),
		},
		[]domain.Edge{
			edge(1, 2, 100, 1, "Main St"),
			edge(2, 3, 100, 1, "Main St"),
			edge(3, 4, 100, 1, "Oak Ave"),
			edge(4, 1, 100, 1, "Oak Ave"),
		},
	)
}

// barbellGraph has two square blocks about 4 km apart joined by a bridge
// from node 2 to node 5. Block edges are 0..3 and 5..8; the bridge is 4.
func barbellGraph(t *testing.T) *domain.Graph {
	const far = 0.05
	nodes := []domain.Node{
		node(1, 40, -75), node(2, 40, -75+step), node(3, 40+step, -75+step), node(4, 40+step, -75),
		node(5, 40, -75+far), node(6, 40, -75+far+step), node(7, 40+step, -75+far+step), node(8, 40+step, -75+far),
	}
	edges := []domain.Edge{
		edge(1, 2, 85, 10, "West A"), edge(2, 3, 111, 10, "West B"), edge(3, 4, 85, 10, "West C"), edge(4, 1, 111, 10, "West D"),
		edge(2, 5, 4100, 1, "Bridge Rd"),
		edge(5, 6, 85, 10, "East A"), edge(6, 7, 111, 10, "East B"), edge(7, 8, 85, 10, "East C"), edge(8, 5, 111, 10, "East D"),
	}
	return mustGraph(t, nodes, edges)
}

// gridGraph lays out cols x rows nodes 100 m apart with unit weights.
func gridGraph(t *testing.T, cols, rows int, weight float64) *domain.Graph {
	id := func(r, c int) int64 { return int64(r*cols + c + 1) }
	var nodes []domain.Node
	var edges []domain.Edge
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			nodes = append(nodes, node(id(r, c), 40+float64(r)*0.0009, -75+float64(c)*0.00118))
			if c+1 < cols {
				edges = append(edges, edge(id(r, c), id(r, c+1), 100, weight, fmt.Sprintf("Row %d", r)))
			}
			if r+1 < rows {
				edges = append(edges, edge(id(r, c), id(r+1, c), 100, weight, fmt.Sprintf("Col %d", c)))
			}
		}
	}
	return mustGraph(t, nodes, edges)
}

func zoneConnected(g *domain.Graph, z *domain.Zone) bool {
	idx, arcs := localArcs(g, z.EdgeIDs)
	return algo.IsConnected(len(idx), arcs)
}

// checkRouteWalk verifies consecutive steps chain and every step uses a zone
// edge in an allowed direction.
func checkRouteWalk(t *testing.T, g *domain.Graph, z *domain.Zone, r *domain.Route, mode domain.TravelMode) {
	t.Helper()
	inZone := make(map[domain.EdgeID]bool, len(z.EdgeIDs))
	for _, e := range z.EdgeIDs {
		inZone[e] = true
	}
	if len(r.Nodes) != len(r.Steps)+1 {
		t.Fatalf("nodes = %d, want steps+1 = %d", len(r.Nodes), len(r.Steps)+1)
	}
	for i, s := range r.Steps {
		if !inZone[s.Edge] {
			t.Fatalf("step %d uses edge %d outside zone %d", i, s.Edge, z.ID)
		}
		e := g.Edge(s.Edge)
		forward := e.From == s.From && e.To == s.To
		backward := e.To == s.From && e.From == s.To
		if !forward && !backward {
			t.Fatalf("step %d: edge %d does not join %d -> %d", i, s.Edge, s.From, s.To)
		}
		if mode == domain.TravelDriving && e.Directed && !forward {
			t.Fatalf("step %d drives one-way edge %d against its direction", i, s.Edge)
		}
		if s.From != r.Nodes[i] || s.To != r.Nodes[i+1] {
			t.Fatalf("step %d does not follow node walk", i)
		}
	}
}
