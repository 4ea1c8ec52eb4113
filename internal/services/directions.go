package services

import (
	"strings"

	"flyer-route-service/internal/domain"
)

// SummarizeDirections emits one instruction per traversed edge and merges
// consecutive steps on the same street.
func SummarizeDirections(g *domain.Graph, steps []domain.RouteStep) []domain.Direction {
	raw := make([]domain.Direction, 0, len(steps))
	for _, s := range steps {
		e := g.Edge(s.Edge)
		raw = append(raw, domain.Direction{Street: e.Name, DistanceM: e.LengthM})
	}
	return MergeDirections(raw)
}

// MergeDirections collapses runs of the same street, summing distances, and
// renumbers from 1. Applying it to its own output changes nothing.
func MergeDirections(in []domain.Direction) []domain.Direction {
	out := make([]domain.Direction, 0, len(in))
	for _, d := range in {
		street := strings.TrimSpace(d.Street)
		if street == "" {
			street = domain.UnnamedStreet
		}
		if n := len(out); n > 0 && out[n-1].Street == street {
			out[n-1].DistanceM += d.DistanceM
			continue
		}
		out = append(out, domain.Direction{Street: street, DistanceM: d.DistanceM})
	}

	for i := range out {
		out[i].Step = i + 1
		if i == 0 {
			out[i].Instruction = "Start on " + out[i].Street
		} else {
			out[i].Instruction = "Turn onto " + out[i].Street
		}
	}
	return out
}
