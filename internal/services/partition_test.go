package services

import (
	"context"
	"errors"
	"testing"

	"flyer-route-service/internal/domain"
)

func checkCoverage(t *testing.T, g *domain.Graph, p *domain.Partition) {
	t.Helper()
	seen := make(map[domain.EdgeID]int)
	for _, z := range p.Zones {
		for _, e := range z.EdgeIDs {
			seen[e]++
		}
	}
	for _, e := range p.Dropped {
		seen[e]++
	}
	if p.AssignedEdges()+len(p.Dropped) != g.NumEdges() {
		t.Fatalf("assigned %d + dropped %d != edges %d", p.AssignedEdges(), len(p.Dropped), g.NumEdges())
	}
	for e, n := range seen {
		if n != 1 {
			t.Fatalf("edge %d appears %d times across zones and dropped", e, n)
		}
	}
}

func TestPartitionSquareSingleZone(t *testing.T) {
	g := squareGraph(t)

	p, err := Partition(context.Background(), g, 1, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Zones) != 1 {
		t.Fatalf("zones = %d, want 1", len(p.Zones))
	}
	z := p.Zones[0]
	if z.Weight != 4 {
		t.Fatalf("weight = %v, want 4", z.Weight)
	}
	if z.LengthM != 400 {
		t.Fatalf("length = %v, want 400", z.LengthM)
	}
	if len(z.NodeIDs) != 4 {
		t.Fatalf("nodes = %d, want 4", len(z.NodeIDs))
	}
	if z.Deviation != 0 || z.BalanceWarning != nil {
		t.Fatalf("single zone should be on target, got deviation %v", z.Deviation)
	}
	if p.Shortfall != nil {
		t.Fatalf("unexpected shortfall: %v", p.Shortfall)
	}
	checkCoverage(t, g, p)
}

func TestPartitionBarbellSeparatesBlocks(t *testing.T) {
	g := barbellGraph(t)

	p, err := Partition(context.Background(), g, 2, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Zones) != 2 {
		t.Fatalf("zones = %d, want 2", len(p.Zones))
	}
	checkCoverage(t, g, p)

	zoneOf := make(map[domain.EdgeID]int)
	for _, z := range p.Zones {
		for _, e := range z.EdgeIDs {
			zoneOf[e] = z.ID
		}
		if !zoneConnected(g, z) {
			t.Fatalf("zone %d is not connected", z.ID)
		}
	}

	west, east := zoneOf[0], zoneOf[5]
	if west == 0 || east == 0 || west == east {
		t.Fatalf("blocks share or miss zones: west=%d east=%d", west, east)
	}
	for _, e := range []domain.EdgeID{1, 2, 3} {
		if zoneOf[e] != west {
			t.Fatalf("west edge %d in zone %d, want %d", e, zoneOf[e], west)
		}
	}
	for _, e := range []domain.EdgeID{6, 7, 8} {
		if zoneOf[e] != east {
			t.Fatalf("east edge %d in zone %d, want %d", e, zoneOf[e], east)
		}
	}
}

func TestPartitionGridBalanced(t *testing.T) {
	g := gridGraph(t, 8, 4, 1)
	if g.NumEdges() != 52 {
		t.Fatalf("grid edges = %d, want 52", g.NumEdges())
	}

	p, err := Partition(context.Background(), g, 2, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Zones) != 2 {
		t.Fatalf("zones = %d, want 2", len(p.Zones))
	}
	checkCoverage(t, g, p)
	if len(p.Dropped) != 0 {
		t.Fatalf("dropped = %v, want none", p.Dropped)
	}
	if p.Target != 26 {
		t.Fatalf("target = %v, want 26", p.Target)
	}

	for _, z := range p.Zones {
		if n := len(z.EdgeIDs); n < 23 || n > 29 {
			t.Fatalf("zone %d has %d edges, want 23..29", z.ID, n)
		}
		if z.BalanceWarning != nil {
			t.Fatalf("zone %d: %v", z.ID, z.BalanceWarning)
		}
		if !zoneConnected(g, z) {
			t.Fatalf("zone %d is not connected", z.ID)
		}
	}
}

func TestPartitionDeterministic(t *testing.T) {
	g := gridGraph(t, 6, 5, 2)
	a, err := Partition(context.Background(), g, 3, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Partition(context.Background(), g, 3, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Zones) != len(b.Zones) {
		t.Fatalf("zone counts differ: %d vs %d", len(a.Zones), len(b.Zones))
	}
	for i := range a.Zones {
		if len(a.Zones[i].EdgeIDs) != len(b.Zones[i].EdgeIDs) {
			t.Fatalf("zone %d differs between runs", i+1)
		}
		for j := range a.Zones[i].EdgeIDs {
			if a.Zones[i].EdgeIDs[j] != b.Zones[i].EdgeIDs[j] {
				t.Fatalf("zone %d differs between runs", i+1)
			}
		}
	}
}

func TestPartitionManyZonesConnected(t *testing.T) {
	g := gridGraph(t, 10, 10, 1)
	p, err := Partition(context.Background(), g, 6, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkCoverage(t, g, p)
	for _, z := range p.Zones {
		if len(z.EdgeIDs) == 0 {
			t.Fatalf("zone %d is empty", z.ID)
		}
		if !zoneConnected(g, z) {
			t.Fatalf("zone %d is not connected", z.ID)
		}
	}
}

func TestPartitionShortfall(t *testing.T) {
	g := squareGraph(t)
	p, err := Partition(context.Background(), g, 10, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Shortfall == nil {
		t.Fatalf("expected shortfall for 10 zones over 4 edges")
	}
	if p.Shortfall.Requested != 10 || p.Shortfall.Achieved != len(p.Zones) {
		t.Fatalf("shortfall = %+v, zones = %d", p.Shortfall, len(p.Zones))
	}
	if len(p.Zones) > 4 {
		t.Fatalf("zones = %d, want <= 4", len(p.Zones))
	}
	checkCoverage(t, g, p)
}

func TestPartitionSingleZoneDisconnectedDropsSmaller(t *testing.T) {
	g := mustGraph(t,
		[]domain.Node{node(1, 40, -75), node(2, 40, -74.999), node(3, 40.001, -74.999), node(4, 41, -75), node(5, 41, -74.999)},
		[]domain.Edge{
			edge(1, 2, 100, 1, "A"),
			edge(2, 3, 100, 1, "B"),
			edge(4, 5, 100, 1, "C"),
		},
	)
	p, err := Partition(context.Background(), g, 1, DefaultPartitionOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Zones[0].EdgeIDs) != 2 {
		t.Fatalf("zone edges = %v, want the 2-edge component", p.Zones[0].EdgeIDs)
	}
	if len(p.Dropped) != 1 || p.Dropped[0] != 2 {
		t.Fatalf("dropped = %v, want [2]", p.Dropped)
	}
}

func TestPartitionErrors(t *testing.T) {
	empty := mustGraph(t, nil, nil)
	_, err := Partition(context.Background(), empty, 2, DefaultPartitionOptions())
	if !errors.Is(err, domain.ErrEmptyArea) {
		t.Fatalf("err = %v, want ErrEmptyArea", err)
	}

	_, err = Partition(context.Background(), squareGraph(t), 0, DefaultPartitionOptions())
	if err == nil {
		t.Fatalf("expected error for zero zones")
	}
}

func TestPartitionBalanceByLength(t *testing.T) {
	g := gridGraph(t, 8, 4, 0)
	opts := DefaultPartitionOptions()
	opts.BalanceBy = domain.BalanceByLength

	p, err := Partition(context.Background(), g, 2, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Target != 2600 {
		t.Fatalf("target = %v, want 2600", p.Target)
	}
	for _, z := range p.Zones {
		if z.Metric != z.LengthM {
			t.Fatalf("zone %d metric %v != length %v", z.ID, z.Metric, z.LengthM)
		}
	}
}
