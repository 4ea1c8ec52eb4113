package services

import (
	"context"
	"fmt"
	"math"
	"slices"

	"flyer-route-service/internal/algo"
	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/platform/obs"
)

const (
	DefaultPartitionSeed    int64 = 42
	DefaultKMeansRestarts         = 10
	DefaultBalanceTolerance       = 0.15

	metersPerDegree = 111320.0
)

type PartitionOptions struct {
	BalanceBy domain.BalanceBy
	Seed      int64
	Restarts  int
	// Tolerance is the allowed relative deviation from the per-zone target.
	Tolerance float64
	// MaxBalanceMoves caps single-edge moves in the balance pass.
	// Zero means 4x the edge count.
	MaxBalanceMoves int
}

func DefaultPartitionOptions() PartitionOptions {
	return PartitionOptions{
		BalanceBy: domain.BalanceByWeight,
		Seed:      DefaultPartitionSeed,
		Restarts:  DefaultKMeansRestarts,
		Tolerance: DefaultBalanceTolerance,
	}
}

// Partition splits g into at most numZones connected zones of roughly equal
// metric. Every edge ends up in exactly one zone or in the Dropped list.
//
// Fewer zones than requested is not an error; the shortfall is recorded on
// the result.
func Partition(ctx context.Context, g *domain.Graph, numZones int, opts PartitionOptions) (_ *domain.Partition, err error) {
	defer obs.Time(ctx, "partition")(&err)

	if numZones < 1 {
		return nil, fmt.Errorf("partition: num zones must be >= 1, got %d", numZones)
	}
	if g == nil || g.NumEdges() == 0 {
		return nil, fmt.Errorf("partition: %w", domain.ErrEmptyArea)
	}
	if opts.BalanceBy == "" {
		opts.BalanceBy = domain.BalanceByWeight
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultBalanceTolerance
	}

	p := newPartitioner(g, opts)

	if numZones == 1 {
		p.wholeGraph()
	} else {
		k := min(numZones, g.NumEdges())
		p.cluster(k)
		p.placeOrphans()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}

	p.balance()
	return p.result(numZones), nil
}

type planePoint struct{ x, y float64 }

type zoneState struct {
	edges  map[domain.EdgeID]struct{}
	nodes  map[domain.NodeID]int
	metric float64
	sumX   float64
	sumY   float64
}

func newZoneState() *zoneState {
	return &zoneState{
		edges: make(map[domain.EdgeID]struct{}),
		nodes: make(map[domain.NodeID]int),
	}
}

func (z *zoneState) centre() planePoint {
	if z.metric == 0 {
		return planePoint{}
	}
	return planePoint{x: z.sumX / z.metric, y: z.sumY / z.metric}
}

func (z *zoneState) sortedEdges() []domain.EdgeID {
	out := make([]domain.EdgeID, 0, len(z.edges))
	for id := range z.edges {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

type partitioner struct {
	g      *domain.Graph
	opts   PartitionOptions
	metric []float64
	mid    []planePoint
	owner  []int
	zones  []*zoneState
	target float64
}

func newPartitioner(g *domain.Graph, opts PartitionOptions) *partitioner {
	n := g.NumEdges()
	p := &partitioner{
		g:      g,
		opts:   opts,
		metric: make([]float64, n),
		mid:    make([]planePoint, n),
		owner:  make([]int, n),
	}

	mids := make([]domain.Coordinates, n)
	var lat0, lon0 float64
	for i := 0; i < n; i++ {
		id := domain.EdgeID(i)
		p.metric[i] = max(g.Metric(id, opts.BalanceBy), 1)
		p.owner[i] = -1
		mids[i] = g.EdgeMidpoint(id)
		lat0 += mids[i].Lat
		lon0 += mids[i].Lon
	}
	lat0 /= float64(n)
	lon0 /= float64(n)

	// Local equirectangular projection around the mean midpoint.
	cosLat := math.Cos(lat0 * math.Pi / 180)
	for i, c := range mids {
		p.mid[i] = planePoint{
			x: (c.Lon - lon0) * metersPerDegree * cosLat,
			y: (c.Lat - lat0) * metersPerDegree,
		}
	}
	return p
}

func (p *partitioner) assign(e domain.EdgeID, zi int) {
	z := p.zones[zi]
	edge := p.g.Edge(e)
	z.edges[e] = struct{}{}
	z.nodes[edge.From]++
	z.nodes[edge.To]++
	z.metric += p.metric[e]
	z.sumX += p.mid[e].x * p.metric[e]
	z.sumY += p.mid[e].y * p.metric[e]
	p.owner[e] = zi
}

func (p *partitioner) unassign(e domain.EdgeID) {
	zi := p.owner[e]
	if zi < 0 {
		return
	}
	z := p.zones[zi]
	edge := p.g.Edge(e)
	delete(z.edges, e)
	for _, n := range []domain.NodeID{edge.From, edge.To} {
		z.nodes[n]--
		if z.nodes[n] <= 0 {
			delete(z.nodes, n)
		}
	}
	z.metric -= p.metric[e]
	z.sumX -= p.mid[e].x * p.metric[e]
	z.sumY -= p.mid[e].y * p.metric[e]
	p.owner[e] = -1
}

// wholeGraph makes a single zone from the largest connected component.
func (p *partitioner) wholeGraph() {
	all := make([]domain.EdgeID, p.g.NumEdges())
	for i := range all {
		all[i] = domain.EdgeID(i)
	}
	p.zones = []*zoneState{newZoneState()}
	for _, e := range largestComponent(p.g, all) {
		p.assign(e, 0)
	}
}

func (p *partitioner) cluster(k int) {
	n := p.g.NumEdges()
	mean := 0.0
	for _, m := range p.metric {
		mean += m
	}
	mean /= float64(n)

	points := make([]algo.WeightedPoint, n)
	for i := range points {
		points[i] = algo.WeightedPoint{
			X:      p.mid[i].x,
			Y:      p.mid[i].y,
			Weight: max(1, math.Floor(p.metric[i]/mean)),
		}
	}

	res := algo.WeightedKMeans(points, k, algo.KMeansOptions{
		Seed:     p.opts.Seed,
		Restarts: p.opts.Restarts,
	})

	clusters := make([][]domain.EdgeID, len(res.Centers))
	for i, c := range res.Labels {
		clusters[c] = append(clusters[c], domain.EdgeID(i))
	}

	for _, members := range clusters {
		if len(members) == 0 {
			continue
		}
		p.zones = append(p.zones, newZoneState())
		zi := len(p.zones) - 1
		for _, e := range largestComponent(p.g, members) {
			p.assign(e, zi)
		}
	}
}

// placeOrphans attaches unowned edges to the nearest zone sharing one of
// their endpoints, repeating until a pass places nothing.
func (p *partitioner) placeOrphans() {
	for {
		placed := 0
		for i, zi := range p.owner {
			if zi >= 0 {
				continue
			}
			e := domain.EdgeID(i)
			edge := p.g.Edge(e)

			best, bestD := -1, math.Inf(1)
			for zj, z := range p.zones {
				if z.nodes[edge.From] == 0 && z.nodes[edge.To] == 0 {
					continue
				}
				c := z.centre()
				dx, dy := p.mid[i].x-c.x, p.mid[i].y-c.y
				if d := dx*dx + dy*dy; d < bestD {
					best, bestD = zj, d
				}
			}
			if best >= 0 {
				p.assign(e, best)
				placed++
			}
		}
		if placed == 0 {
			return
		}
	}
}

func (p *partitioner) result(requested int) *domain.Partition {
	out := &domain.Partition{
		BalanceBy: p.opts.BalanceBy,
		Target:    p.target,
		Tolerance: p.opts.Tolerance,
	}

	for i, owner := range p.owner {
		if owner < 0 {
			out.Dropped = append(out.Dropped, domain.EdgeID(i))
		}
	}

	for i, z := range p.zones {
		zone := &domain.Zone{ID: i + 1, Metric: z.metric}
		zone.EdgeIDs = z.sortedEdges()
		for n := range z.nodes {
			zone.NodeIDs = append(zone.NodeIDs, n)
		}
		slices.Sort(zone.NodeIDs)
		for _, e := range zone.EdgeIDs {
			edge := p.g.Edge(e)
			zone.Weight += edge.Weight
			zone.LengthM += edge.LengthM
		}
		if p.target > 0 {
			zone.Deviation = (z.metric - p.target) / p.target
		}
		if math.Abs(zone.Deviation) > p.opts.Tolerance+1e-9 {
			zone.BalanceWarning = &domain.BalanceToleranceMissed{
				ZoneID:    zone.ID,
				Target:    p.target,
				Actual:    z.metric,
				Deviation: zone.Deviation,
				Tolerance: p.opts.Tolerance,
			}
		}
		out.Zones = append(out.Zones, zone)
	}

	if len(out.Zones) < requested {
		out.Shortfall = &domain.InsufficientAreaError{Requested: requested, Achieved: len(out.Zones)}
	}
	return out
}

// largestComponent returns the edges of the biggest undirected component
// among edges, sorted by id. Ties keep the component holding the lowest id.
func largestComponent(g *domain.Graph, edges []domain.EdgeID) []domain.EdgeID {
	edges = slices.Clone(edges)
	slices.Sort(edges)
	idx, arcs := localArcs(g, edges)
	comps := algo.EdgeComponents(len(idx), arcs)
	if len(comps) == 0 {
		return nil
	}
	best := comps[algo.LargestComponent(comps)]
	out := make([]domain.EdgeID, len(best))
	for i, ai := range best {
		out[i] = edges[ai]
	}
	return out
}

// localArcs maps an edge subset onto dense vertex indices.
func localArcs(g *domain.Graph, edges []domain.EdgeID) (map[domain.NodeID]int, []algo.Arc) {
	idx := make(map[domain.NodeID]int)
	vertex := func(n domain.NodeID) int {
		v, ok := idx[n]
		if !ok {
			v = len(idx)
			idx[n] = v
		}
		return v
	}
	arcs := make([]algo.Arc, len(edges))
	for i, e := range edges {
		edge := g.Edge(e)
		arcs[i] = algo.Arc{U: vertex(edge.From), V: vertex(edge.To), Weight: edge.LengthM}
	}
	return idx, arcs
}
