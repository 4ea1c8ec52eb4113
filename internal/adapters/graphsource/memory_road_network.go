package graphsource

import (
	"context"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/ports"
)

// MemoryRoadNetwork serves a fixed network, for tests and small fixtures.
type MemoryRoadNetwork struct {
	net ports.RoadNetwork
}

func NewMemoryRoadNetwork(nodes []domain.Node, edges []domain.Edge) *MemoryRoadNetwork {
	return &MemoryRoadNetwork{net: ports.RoadNetwork{Nodes: nodes, Edges: edges}}
}

func (m *MemoryRoadNetwork) LoadRoadNetwork(ctx context.Context, b domain.Bounds) (ports.RoadNetwork, error) {
	if err := ctx.Err(); err != nil {
		return ports.RoadNetwork{}, err
	}
	return m.net, nil
}
