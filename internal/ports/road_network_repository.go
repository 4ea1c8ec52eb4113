package ports

import (
	"context"

	"flyer-route-service/internal/domain"
)

// Raw road network rows for a bounding box. Edges may reference nodes
// outside the box; callers clip.
type RoadNetwork struct {
	Nodes []domain.Node
	Edges []domain.Edge
}

// Contract for stores that hold a pre-imported road network.
type RoadNetworkRepository interface {
	// Return nodes and edges touching bounds.
	LoadRoadNetwork(ctx context.Context, bounds domain.Bounds) (RoadNetwork, error)
}
