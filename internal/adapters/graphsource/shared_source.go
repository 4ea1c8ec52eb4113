package graphsource

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/platform/obs"
	"flyer-route-service/internal/ports"
)

// SharedSource collapses concurrent loads of the same area and mode into a
// single call on the wrapped source. Graphs are read-only once built, so
// callers can share the result.
type SharedSource struct {
	next  ports.GraphSource
	group singleflight.Group
}

func NewSharedSource(next ports.GraphSource) *SharedSource {
	return &SharedSource{next: next}
}

func (s *SharedSource) LoadGraph(ctx context.Context, area domain.Area, mode domain.TravelMode) (*domain.Graph, error) {
	key := string(mode) + "|" + area.Key()

	v, err, shared := s.group.Do(key, func() (any, error) {
		// Outlives the first caller so joined callers are not cancelled with it.
		return s.next.LoadGraph(context.WithoutCancel(ctx), area, mode)
	})
	if shared {
		obs.GraphLoadsShared.Inc()
	}
	if err != nil {
		return nil, fmt.Errorf("shared graph load: %w", err)
	}
	return v.(*domain.Graph), nil
}
