// Package graphsource builds request-area graphs for the route generator.
package graphsource

import (
	"context"
	"fmt"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/platform/obs"
	"flyer-route-service/internal/ports"
)

// RepositorySource implements GraphSource over a road network store. It
// fetches the area's bounding box, keeps edges with both endpoints inside
// the area and drops road classes the travel mode does not use.
type RepositorySource struct {
	repo ports.RoadNetworkRepository
}

func NewRepositorySource(repo ports.RoadNetworkRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) LoadGraph(ctx context.Context, area domain.Area, mode domain.TravelMode) (_ *domain.Graph, err error) {
	defer obs.Time(ctx, "graph_source.LoadGraph")(&err)

	net, err := s.repo.LoadRoadNetwork(ctx, area.Bounds())
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	g, err := BuildAreaGraph(net, area, mode)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return g, nil
}

// BuildAreaGraph clips a raw network to area and filters it for mode.
func BuildAreaGraph(net ports.RoadNetwork, area domain.Area, mode domain.TravelMode) (*domain.Graph, error) {
	inside := area.Clipper()

	nodes := make([]domain.Node, 0, len(net.Nodes))
	keep := make(map[domain.NodeID]struct{}, len(net.Nodes))
	for _, n := range net.Nodes {
		if inside(n.Coord) {
			nodes = append(nodes, n)
			keep[n.ID] = struct{}{}
		}
	}

	edges := make([]domain.Edge, 0, len(net.Edges))
	for _, e := range net.Edges {
		_, okFrom := keep[e.From]
		_, okTo := keep[e.To]
		if okFrom && okTo {
			edges = append(edges, e)
		}
	}

	g, err := domain.NewGraph(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("build area graph: %w", err)
	}
	return domain.FilterForMode(g, mode), nil
}
