package services

import (
	"math"
	"slices"

	"flyer-route-service/internal/algo"
	"flyer-route-service/internal/domain"
)

type balanceMove struct {
	edge  domain.EdgeID
	from  int
	to    int
	delta float64
}

// balance shifts boundary edges from heavier zones to adjacent lighter ones.
// A move is taken only when the donor stays connected and non-empty and the
// sum of squared deviations from target strictly drops. Only edges that
// share a node with the receiving zone are considered, so the receiver
// stays connected too.
func (p *partitioner) balance() {
	if len(p.zones) == 0 {
		return
	}

	total := 0.0
	for _, z := range p.zones {
		total += z.metric
	}
	p.target = total / float64(len(p.zones))
	if len(p.zones) == 1 {
		return
	}

	maxMoves := p.opts.MaxBalanceMoves
	if maxMoves <= 0 {
		maxMoves = 4 * p.g.NumEdges()
	}

	for moves := 0; moves < maxMoves; moves++ {
		if p.allInBand() {
			return
		}
		applied := false
		for _, mv := range p.candidateMoves() {
			if !p.connectedWithout(mv.from, mv.edge) {
				continue
			}
			p.unassign(mv.edge)
			p.assign(mv.edge, mv.to)
			applied = true
			break
		}
		if !applied {
			return
		}
	}
}

func (p *partitioner) allInBand() bool {
	band := p.opts.Tolerance * p.target
	for _, z := range p.zones {
		if math.Abs(z.metric-p.target) > band {
			return false
		}
	}
	return true
}

// candidateMoves lists improving moves, best first. Ties go to the lower
// edge id, then the lower receiving zone.
func (p *partitioner) candidateMoves() []balanceMove {
	const eps = 1e-9
	t := p.target
	var out []balanceMove

	for from, z := range p.zones {
		if len(z.edges) <= 1 {
			continue
		}
		for e := range z.edges {
			edge := p.g.Edge(e)
			m := p.metric[e]
			for to, other := range p.zones {
				if to == from || other.metric >= z.metric {
					continue
				}
				if other.nodes[edge.From] == 0 && other.nodes[edge.To] == 0 {
					continue
				}
				a, b := z.metric, other.metric
				delta := sq(a-m-t) + sq(b+m-t) - sq(a-t) - sq(b-t)
				if delta < -eps {
					out = append(out, balanceMove{edge: e, from: from, to: to, delta: delta})
				}
			}
		}
	}

	slices.SortFunc(out, func(x, y balanceMove) int {
		switch {
		case x.delta < y.delta:
			return -1
		case x.delta > y.delta:
			return 1
		case x.edge != y.edge:
			return int(x.edge) - int(y.edge)
		default:
			return x.to - y.to
		}
	})
	return out
}

func (p *partitioner) connectedWithout(zi int, skip domain.EdgeID) bool {
	z := p.zones[zi]
	rest := make([]domain.EdgeID, 0, len(z.edges)-1)
	for e := range z.edges {
		if e != skip {
			rest = append(rest, e)
		}
	}
	idx, arcs := localArcs(p.g, rest)
	return algo.IsConnected(len(idx), arcs)
}

func sq(x float64) float64 { return x * x }
