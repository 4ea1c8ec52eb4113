package services

import (
	"context"
	"errors"

	"flyer-route-service/internal/algo"
)

// greedy plans a zone walk with a nearest-neighbor heuristic.
//
// At each step it takes the lowest-id untraversed edge at the current node.
// When none is left there it follows a shortest path to the nearest node
// that still has one. It stops after 3|E|+100 steps, leaving any remaining
// edges for the caller to report as uncovered. Used when route inspection is
// not possible: one-way streets while driving, or too many odd nodes.
func (rg *routeGraph) greedy(ctx context.Context, start int) (algo.Path, error) {
	visited := make([]bool, len(rg.arcs))
	remaining := len(rg.arcs)
	walk := algo.Path{Vertices: []int{start}}

	hasUnvisited := func(v int) bool {
		for _, ai := range rg.adj.Out(v) {
			if !visited[ai] {
				return true
			}
		}
		return false
	}

	cur := start
	limit := 3*len(rg.arcs) + 100
	for iter := 0; remaining > 0 && iter < limit; iter++ {
		if err := ctx.Err(); err != nil {
			return algo.Path{}, err
		}

		next := -1
		for _, ai := range rg.adj.Out(cur) {
			if !visited[ai] && (next < 0 || ai < next) {
				next = ai
			}
		}

		var step algo.Path
		if next >= 0 {
			step = algo.Path{Vertices: []int{cur, rg.arcs[next].Other(cur)}, Arcs: []int{next}}
		} else {
			p, ok := algo.NearestWhere(rg.adj, cur, hasUnvisited)
			if !ok {
				break
			}
			step = p
		}

		for i, ai := range step.Arcs {
			if !visited[ai] {
				visited[ai] = true
				remaining--
			}
			walk.Arcs = append(walk.Arcs, ai)
			walk.Vertices = append(walk.Vertices, step.Vertices[i+1])
		}
		cur = walk.Vertices[len(walk.Vertices)-1]
	}

	if len(walk.Arcs) == 0 {
		return algo.Path{}, errors.New("no traversable edge reachable from start")
	}
	return walk, nil
}
