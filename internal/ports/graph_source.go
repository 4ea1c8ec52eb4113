package ports

import (
	"context"

	"flyer-route-service/internal/domain"
)

// Port: a boundary for building the road graph of a request area.
type GraphSource interface {
	// Return the road graph inside area, filtered for mode.
	LoadGraph(ctx context.Context, area domain.Area, mode domain.TravelMode) (*domain.Graph, error)
}
