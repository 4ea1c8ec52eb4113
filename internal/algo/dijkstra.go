package algo

import (
	"container/heap"
	"math"
)

type pqItem struct {
	node int
	dist float64
}

type pq []pqItem

func (p pq) Len() int { return len(p) }
func (p pq) Less(i, j int) bool {
	if p[i].dist != p[j].dist {
		return p[i].dist < p[j].dist
	}
	return p[i].node < p[j].node
}
func (p pq) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p *pq) Push(x any) {
	*p = append(*p, x.(pqItem))
}

func (p *pq) Pop() any {
	old := *p
	n := len(old)
	item := old[n-1]
	*p = old[:n-1]
	return item
}

// Path is a walk expressed both as vertices and as the arcs between them.
// len(Vertices) == len(Arcs)+1 for any non-empty path.
type Path struct {
	Vertices []int
	Arcs     []int
	Cost     float64
}

// ShortestPathTree holds single-source Dijkstra results.
type ShortestPathTree struct {
	Source  int
	Dist    []float64
	PrevArc []int
	adj     *Adjacency
}

// ShortestPaths runs Dijkstra from src over adj, honoring arc direction.
// Unreachable vertices have Dist +Inf.
func ShortestPaths(adj *Adjacency, src int) *ShortestPathTree {
	t, _ := search(adj, src, nil)
	return t
}

// NearestWhere runs Dijkstra from src and stops at the first settled vertex
// (other than src) for which target returns true. Equal distances resolve
// to the lower vertex index.
func NearestWhere(adj *Adjacency, src int, target func(v int) bool) (Path, bool) {
	t, found := search(adj, src, target)
	if found < 0 {
		return Path{}, false
	}
	return t.PathTo(found)
}

func search(adj *Adjacency, src int, target func(int) bool) (*ShortestPathTree, int) {
	n := adj.Len()
	dist := make([]float64, n)
	prev := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[src] = 0

	q := &pq{}
	heap.Push(q, pqItem{node: src, dist: 0})
	found := -1

	for q.Len() > 0 {
		cur := heap.Pop(q).(pqItem)
		u := cur.node
		if done[u] || cur.dist > dist[u] {
			continue
		}
		done[u] = true

		if target != nil && u != src && target(u) {
			found = u
			break
		}

		for _, ai := range adj.Out(u) {
			a := adj.Arc(ai)
			v := a.Other(u)
			nd := dist[u] + a.Weight
			if nd < dist[v] {
				dist[v] = nd
				prev[v] = ai
				heap.Push(q, pqItem{node: v, dist: nd})
			}
		}
	}

	return &ShortestPathTree{Source: src, Dist: dist, PrevArc: prev, adj: adj}, found
}

// PathTo reconstructs the path from the tree's source to dst.
func (t *ShortestPathTree) PathTo(dst int) (Path, bool) {
	if math.IsInf(t.Dist[dst], 1) {
		return Path{}, false
	}

	vertices := []int{dst}
	var arcs []int
	cur := dst
	for cur != t.Source {
		ai := t.PrevArc[cur]
		arcs = append(arcs, ai)
		cur = prevVertex(t.adj.Arc(ai), cur)
		vertices = append(vertices, cur)
	}

	reverse(vertices)
	reverse(arcs)
	return Path{Vertices: vertices, Arcs: arcs, Cost: t.Dist[dst]}, true
}

// prevVertex returns the vertex an arc was entered from when it led to v.
func prevVertex(a Arc, v int) int {
	if a.Directed {
		return a.U
	}
	return a.Other(v)
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
