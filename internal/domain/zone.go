package domain

// A connected piece of the road graph assigned to one route.
type Zone struct {
	ID      int
	EdgeIDs []EdgeID
	NodeIDs []NodeID
	Weight  float64
	LengthM float64
	// Metric is the aggregate balancing quantity, each edge floored at 1.
	Metric float64
	// Deviation is (Metric - target) / target after the balance pass.
	Deviation      float64
	BalanceWarning *BalanceToleranceMissed
}

// Partition is the output of the zone partitioner.
type Partition struct {
	Zones []*Zone
	// Dropped holds edges that could not be placed in any connected zone.
	Dropped   []EdgeID
	Shortfall *InsufficientAreaError
	BalanceBy BalanceBy
	Target    float64
	Tolerance float64
}

// AssignedEdges counts the edges held by all zones.
func (p *Partition) AssignedEdges() int {
	n := 0
	for _, z := range p.Zones {
		n += len(z.EdgeIDs)
	}
	return n
}

// Bounds is an axis-aligned lat/lon bounding box.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether c lies inside b, edges included.
func (b Bounds) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// BoundsOf returns the bounding box of the given coordinates.
func BoundsOf(coords []Coordinates) Bounds {
	if len(coords) == 0 {
		return Bounds{}
	}
	b := Bounds{MinLat: coords[0].Lat, MaxLat: coords[0].Lat, MinLon: coords[0].Lon, MaxLon: coords[0].Lon}
	for _, c := range coords[1:] {
		b.MinLat = min(b.MinLat, c.Lat)
		b.MaxLat = max(b.MaxLat, c.Lat)
		b.MinLon = min(b.MinLon, c.Lon)
		b.MaxLon = max(b.MaxLon, c.Lon)
	}
	return b
}
