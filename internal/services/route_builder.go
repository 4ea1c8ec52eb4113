package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"flyer-route-service/internal/algo"
	"flyer-route-service/internal/domain"
)

const (
	DefaultExactMatchLimit = algo.DefaultExactMatchLimit
	// DefaultMaxOddNodes bounds the all-pairs Dijkstra work of route inspection.
	DefaultMaxOddNodes = 400
)

var errTooManyOddNodes = errors.New("odd node set above limit")

type RouteOptions struct {
	Start         *domain.Coordinates
	ReturnToStart bool
	Mode          domain.TravelMode
	// ExactMatchLimit is the largest odd set matched exactly.
	ExactMatchLimit int
	// MaxOddNodes switches to greedy traversal above this odd set size.
	MaxOddNodes int
}

// BuildRoute produces a walk that covers every edge of zone at least once.
//
// Undirected working graphs are solved by route inspection (matching odd
// nodes over shortest-path distances, then Hierholzer). One-way streets in
// driving mode, oversized odd sets and internal errors use a bounded greedy
// traversal instead. Failures are reported on the route, never returned.
func BuildRoute(ctx context.Context, g *domain.Graph, zone *domain.Zone, opts RouteOptions) *domain.Route {
	route := &domain.Route{ZoneID: zone.ID, Algorithm: domain.AlgorithmNone}
	if len(zone.EdgeIDs) == 0 {
		route.FailureReason = "zone has no edges"
		return route
	}
	if err := ctx.Err(); err != nil {
		route.FailureReason = err.Error()
		return route
	}
	if opts.ExactMatchLimit <= 0 {
		opts.ExactMatchLimit = DefaultExactMatchLimit
	}
	if opts.MaxOddNodes <= 0 {
		opts.MaxOddNodes = DefaultMaxOddNodes
	}

	rg := newRouteGraph(g, zone, opts.Mode)
	start := rg.startVertex(opts.Start)
	route.StartNode = rg.nodes[start]

	var (
		walk algo.Path
		err  error
	)
	if rg.directed {
		err = errors.New("one-way streets present")
	} else {
		walk, err = rg.postman(ctx, start, opts)
		if err == nil {
			route.Algorithm = domain.AlgorithmPostman
		}
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			route.FailureReason = ctxErr.Error()
			return route
		}
		log.Printf("op=build_route zone=%d fallback=greedy reason=%q", zone.ID, err)
		walk, err = rg.greedy(ctx, start)
		if err != nil {
			route.FailureReason = err.Error()
			return route
		}
		route.Algorithm = domain.AlgorithmGreedy
	}

	if opts.ReturnToStart && walk.Vertices[len(walk.Vertices)-1] != start {
		end := walk.Vertices[len(walk.Vertices)-1]
		back, ok := algo.ShortestPaths(rg.adj, end).PathTo(start)
		if ok {
			walk.Vertices = append(walk.Vertices, back.Vertices[1:]...)
			walk.Arcs = append(walk.Arcs, back.Arcs...)
		} else {
			route.ReturnLegMissing = true
		}
	}

	rg.fill(route, walk)
	route.Directions = SummarizeDirections(g, route.Steps)
	return route
}

// routeGraph is a zone's edges laid out on dense vertex indices. Arc i is
// zone.EdgeIDs[i]; vertex v is nodes[v] and nodes are in ascending id order.
type routeGraph struct {
	g        *domain.Graph
	zone     *domain.Zone
	nodes    []domain.NodeID
	index    map[domain.NodeID]int
	arcs     []algo.Arc
	adj      *algo.Adjacency
	directed bool
}

func newRouteGraph(g *domain.Graph, zone *domain.Zone, mode domain.TravelMode) *routeGraph {
	rg := &routeGraph{g: g, zone: zone, index: make(map[domain.NodeID]int)}

	seen := make(map[domain.NodeID]struct{})
	for _, e := range zone.EdgeIDs {
		edge := g.Edge(e)
		seen[edge.From] = struct{}{}
		seen[edge.To] = struct{}{}
	}
	for _, id := range g.NodeIDs() {
		if _, ok := seen[id]; ok {
			rg.index[id] = len(rg.nodes)
			rg.nodes = append(rg.nodes, id)
		}
	}

	rg.arcs = make([]algo.Arc, len(zone.EdgeIDs))
	for i, e := range zone.EdgeIDs {
		edge := g.Edge(e)
		directed := mode == domain.TravelDriving && edge.Directed
		rg.directed = rg.directed || directed
		rg.arcs[i] = algo.Arc{
			U:        rg.index[edge.From],
			V:        rg.index[edge.To],
			Weight:   edge.LengthM,
			Directed: directed,
		}
	}
	rg.adj = algo.NewAdjacency(len(rg.nodes), rg.arcs)
	return rg
}

// startVertex picks the zone node nearest to the requested start, or to the
// weight-weighted centroid of edge midpoints. Ties go to the lower node id.
func (rg *routeGraph) startVertex(start *domain.Coordinates) int {
	var target domain.Coordinates
	if start != nil {
		target = *start
	} else {
		var lat, lon, w float64
		for _, e := range rg.zone.EdgeIDs {
			m := rg.g.EdgeMidpoint(e)
			ew := rg.g.Edge(e).Weight
			lat += m.Lat * ew
			lon += m.Lon * ew
			w += ew
		}
		if w == 0 {
			for _, e := range rg.zone.EdgeIDs {
				m := rg.g.EdgeMidpoint(e)
				lat += m.Lat
				lon += m.Lon
			}
			w = float64(len(rg.zone.EdgeIDs))
		}
		target = domain.Coordinates{Lat: lat / w, Lon: lon / w}
	}

	best, bestD := 0, math.Inf(1)
	for v, id := range rg.nodes {
		n, _ := rg.g.Node(id)
		if d := n.Coord.SquaredDistance(target); d < bestD {
			best, bestD = v, d
		}
	}
	return best
}

func (rg *routeGraph) postman(ctx context.Context, start int, opts RouteOptions) (algo.Path, error) {
	deg := make([]int, len(rg.nodes))
	for _, a := range rg.arcs {
		deg[a.U]++
		deg[a.V]++
	}

	odd := make(map[int]bool)
	for v, d := range deg {
		if d%2 == 1 {
			odd[v] = true
		}
	}

	// An open trail may end anywhere: flip the start's parity and let a
	// zero-cost free end absorb one odd node.
	free := !opts.ReturnToStart
	if free {
		odd[start] = !odd[start]
	}

	var set []int
	for v := range rg.nodes {
		if odd[v] {
			set = append(set, v)
		}
	}
	if len(set) > opts.MaxOddNodes {
		return algo.Path{}, fmt.Errorf("%w: %d > %d", errTooManyOddNodes, len(set), opts.MaxOddNodes)
	}

	trees := make([]*algo.ShortestPathTree, len(set))
	for i, v := range set {
		if err := ctx.Err(); err != nil {
			return algo.Path{}, err
		}
		trees[i] = algo.ShortestPaths(rg.adj, v)
	}

	k := len(set)
	if free {
		k++
	}
	cost := func(i, j int) float64 {
		if i >= len(set) || j >= len(set) {
			return 0
		}
		return trees[i].Dist[set[j]]
	}
	pairs, _, err := algo.MinWeightPerfectMatching(k, cost, opts.ExactMatchLimit)
	if err != nil {
		return algo.Path{}, fmt.Errorf("match odd nodes: %w", err)
	}

	arcs := append([]algo.Arc(nil), rg.arcs...)
	origin := make([]int, len(rg.arcs), len(rg.arcs)*2)
	for i := range origin {
		origin[i] = i
	}
	for _, pr := range pairs {
		if pr.J >= len(set) {
			continue
		}
		path, ok := trees[pr.I].PathTo(set[pr.J])
		if !ok {
			return algo.Path{}, fmt.Errorf("no path between matched nodes %d and %d", rg.nodes[set[pr.I]], rg.nodes[set[pr.J]])
		}
		for _, ai := range path.Arcs {
			arcs = append(arcs, rg.arcs[ai])
			origin = append(origin, ai)
		}
	}

	trail, err := algo.EulerianTrail(len(rg.nodes), arcs, start)
	if err != nil {
		return algo.Path{}, err
	}
	for i, ai := range trail.Arcs {
		trail.Arcs[i] = origin[ai]
	}
	return trail, nil
}

// fill converts a vertex walk into the route's node, step and waypoint views
// and reconciles coverage against the zone.
func (rg *routeGraph) fill(route *domain.Route, walk algo.Path) {
	covered := make([]bool, len(rg.arcs))
	unique := 0.0

	route.Nodes = make([]domain.NodeID, len(walk.Vertices))
	route.Waypoints = make([]domain.Coordinates, len(walk.Vertices))
	for i, v := range walk.Vertices {
		id := rg.nodes[v]
		n, _ := rg.g.Node(id)
		route.Nodes[i] = id
		route.Waypoints[i] = n.Coord
	}

	route.Steps = make([]domain.RouteStep, len(walk.Arcs))
	for i, ai := range walk.Arcs {
		e := rg.zone.EdgeIDs[ai]
		route.Steps[i] = domain.RouteStep{Edge: e, From: route.Nodes[i], To: route.Nodes[i+1]}
		length := rg.arcs[ai].Weight
		route.TotalDistanceM += length
		if !covered[ai] {
			covered[ai] = true
			unique += length
		}
	}
	route.DuplicateDistanceM = route.TotalDistanceM - unique
	route.EndNode = route.Nodes[len(route.Nodes)-1]

	for ai, ok := range covered {
		if !ok {
			route.UncoveredEdges = append(route.UncoveredEdges, rg.zone.EdgeIDs[ai])
		}
	}
	if len(route.UncoveredEdges) > 0 {
		route.Coverage = &domain.PartialCoverageWarning{
			ZoneID:    rg.zone.ID,
			Uncovered: len(route.UncoveredEdges),
			Total:     len(rg.arcs),
		}
	}
}
