package domain

import (
	"math"
)

// DefaultBuildingSnapM is how far a building may sit from its nearest road
// and still count toward that road's addresses.
const DefaultBuildingSnapM = 50

// Building is a footprint reduced to its centroid.
type Building struct {
	Centroid Coordinates
	Type     string
	Levels   int
}

// EstimateUnits guesses dwelling units: apartment blocks get four per level
// (at least four), everything else counts as one.
func (b Building) EstimateUnits() int {
	if b.Type == "apartments" {
		return max(4*max(b.Levels, 1), 4)
	}
	return 1
}

// AssignBuildings adds each building's units to the weight of the nearest
// edge within maxDistanceM, returning how many buildings were placed.
// Edge weights are modified in place on the slice.
func AssignBuildings(nodes []Node, edges []Edge, buildings []Building, maxDistanceM float64) int {
	if len(edges) == 0 || len(buildings) == 0 {
		return 0
	}
	if maxDistanceM <= 0 {
		maxDistanceM = DefaultBuildingSnapM
	}

	coords := make(map[NodeID]Coordinates, len(nodes))
	var lat0 float64
	for _, n := range nodes {
		coords[n.ID] = n.Coord
		lat0 += n.Coord.Lat
	}
	lat0 /= float64(len(nodes))

	idx := newEdgeGrid(coords, edges, maxDistanceM, lat0)

	placed := 0
	for _, b := range buildings {
		best, bestD := -1, math.Inf(1)
		for _, ei := range idx.near(b.Centroid) {
			e := edges[ei]
			if d := idx.distance(b.Centroid, coords[e.From], coords[e.To]); d < bestD {
				best, bestD = ei, d
			}
		}
		if best >= 0 && bestD <= maxDistanceM {
			edges[best].Weight += float64(b.EstimateUnits())
			placed++
		}
	}
	return placed
}

type gridCell struct{ row, col int }

// edgeGrid buckets edges by the cells their bounding boxes overlap. Cells
// are at least maxDistanceM wide so a 3x3 neighbourhood covers the radius.
type edgeGrid struct {
	cellLat float64
	cellLon float64
	mLat    float64
	mLon    float64
	cells   map[gridCell][]int
}

func newEdgeGrid(coords map[NodeID]Coordinates, edges []Edge, cellM, lat0 float64) *edgeGrid {
	g := &edgeGrid{
		mLat:  metersPerDegreeLat,
		mLon:  metersPerDegreeLat * math.Cos(lat0*math.Pi/180),
		cells: make(map[gridCell][]int),
	}
	g.cellLat = cellM / g.mLat
	g.cellLon = cellM / math.Max(g.mLon, 1)

	for i, e := range edges {
		a, b := coords[e.From], coords[e.To]
		lo := g.cell(Coordinates{Lat: min(a.Lat, b.Lat), Lon: min(a.Lon, b.Lon)})
		hi := g.cell(Coordinates{Lat: max(a.Lat, b.Lat), Lon: max(a.Lon, b.Lon)})
		for r := lo.row; r <= hi.row; r++ {
			for c := lo.col; c <= hi.col; c++ {
				k := gridCell{r, c}
				g.cells[k] = append(g.cells[k], i)
			}
		}
	}
	return g
}

func (g *edgeGrid) cell(c Coordinates) gridCell {
	return gridCell{
		row: int(math.Floor(c.Lat / g.cellLat)),
		col: int(math.Floor(c.Lon / g.cellLon)),
	}
}

// near returns candidate edges around c without duplicates, in ascending order
// of first appearance.
func (g *edgeGrid) near(c Coordinates) []int {
	center := g.cell(c)
	seen := make(map[int]struct{})
	var out []int
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			for _, ei := range g.cells[gridCell{center.row + dr, center.col + dc}] {
				if _, ok := seen[ei]; !ok {
					seen[ei] = struct{}{}
					out = append(out, ei)
				}
			}
		}
	}
	return out
}

// distance is the point-to-segment distance in meters on a local plane.
func (g *edgeGrid) distance(p, a, b Coordinates) float64 {
	px, py := p.Lon*g.mLon, p.Lat*g.mLat
	ax, ay := a.Lon*g.mLon, a.Lat*g.mLat
	bx, by := b.Lon*g.mLon, b.Lat*g.mLat

	dx, dy := bx-ax, by-ay
	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = math.Max(0, math.Min(1, ((px-ax)*dx+(py-ay)*dy)/l2))
	}
	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(px-cx, py-cy)
}
