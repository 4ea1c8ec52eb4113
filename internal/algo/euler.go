package algo

import (
	"errors"
	"fmt"
)

var ErrIncompleteTrail = errors.New("algo: eulerian trail does not use every arc")

type trailFrame struct {
	vertex int
	arc    int
}

// EulerianTrail walks every arc exactly once starting at start using
// Hierholzer's algorithm. Arcs are tried in ascending index order at each
// vertex. It returns ErrIncompleteTrail when the arcs do not admit a trail
// from start (wrong parity or disconnected).
func EulerianTrail(n int, arcs []Arc, start int) (Path, error) {
	adj := NewAdjacency(n, arcs)
	used := make([]bool, len(arcs))
	ptr := make([]int, n)

	stack := []trailFrame{{vertex: start, arc: -1}}
	var circuit []trailFrame

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		u := top.vertex
		out := adj.Out(u)
		for ptr[u] < len(out) && used[out[ptr[u]]] {
			ptr[u]++
		}
		if ptr[u] < len(out) {
			ai := out[ptr[u]]
			used[ai] = true
			stack = append(stack, trailFrame{vertex: arcs[ai].Other(u), arc: ai})
			continue
		}
		stack = stack[:len(stack)-1]
		circuit = append(circuit, top)
	}

	if len(circuit)-1 != len(arcs) {
		return Path{}, fmt.Errorf("%w: used %d of %d", ErrIncompleteTrail, len(circuit)-1, len(arcs))
	}

	reverse(circuit)
	p := Path{
		Vertices: make([]int, 0, len(circuit)),
		Arcs:     make([]int, 0, len(arcs)),
	}
	for i, f := range circuit {
		p.Vertices = append(p.Vertices, f.vertex)
		if i > 0 {
			p.Arcs = append(p.Arcs, f.arc)
			p.Cost += arcs[f.arc].Weight
		}
	}
	return p, nil
}
