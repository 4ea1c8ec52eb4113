// Package osmfile reads road networks from OpenStreetMap XML extracts.
package osmfile

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/ports"
)

// OSMRoadNetworkRepository serves bounding-box queries from an .osm file
// parsed once on first use.
type OSMRoadNetworkRepository struct {
	path string

	once sync.Once
	net  ports.RoadNetwork
	err  error
}

func NewOSMRoadNetworkRepository(path string) *OSMRoadNetworkRepository {
	return &OSMRoadNetworkRepository{path: path}
}

func (r *OSMRoadNetworkRepository) LoadRoadNetwork(ctx context.Context, b domain.Bounds) (ports.RoadNetwork, error) {
	r.once.Do(func() {
		f, err := os.Open(r.path)
		if err != nil {
			r.err = fmt.Errorf("osm road network: open %q: %w", r.path, err)
			return
		}
		defer f.Close()

		r.net, r.err = Parse(context.WithoutCancel(ctx), f)
		if r.err == nil {
			log.Printf("op=osm_load path=%s nodes=%d edges=%d", r.path, len(r.net.Nodes), len(r.net.Edges))
		}
	})
	if r.err != nil {
		return ports.RoadNetwork{}, r.err
	}
	return Clip(r.net, b), nil
}

// Clip keeps edges with at least one endpoint inside b, plus their nodes.
func Clip(net ports.RoadNetwork, b domain.Bounds) ports.RoadNetwork {
	coords := make(map[domain.NodeID]domain.Coordinates, len(net.Nodes))
	for _, n := range net.Nodes {
		coords[n.ID] = n.Coord
	}

	var out ports.RoadNetwork
	used := make(map[domain.NodeID]struct{})
	for _, e := range net.Edges {
		if !b.Contains(coords[e.From]) && !b.Contains(coords[e.To]) {
			continue
		}
		out.Edges = append(out.Edges, e)
		used[e.From] = struct{}{}
		used[e.To] = struct{}{}
	}
	for _, n := range net.Nodes {
		if _, ok := used[n.ID]; ok {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return out
}

type wayInfo struct {
	nodes  []osm.NodeID
	tags   osm.Tags
	oneway int
}

// Parse turns an OSM XML stream into a road network. Every highway way
// becomes one edge per consecutive node pair; building ways are reduced to
// centroids and snapped to the nearest road as address weight.
func Parse(ctx context.Context, r io.Reader) (ports.RoadNetwork, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	coords := make(map[osm.NodeID]domain.Coordinates)
	var roads []wayInfo
	var buildingWays []*osm.Way

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			coords[o.ID] = domain.Coordinates{Lat: o.Lat, Lon: o.Lon}
		case *osm.Way:
			if o.Tags.Find("highway") != "" {
				roads = append(roads, wayInfo{
					nodes:  o.Nodes.NodeIDs(),
					tags:   o.Tags,
					oneway: onewayDirection(o.Tags),
				})
			} else if o.Tags.Find("building") != "" {
				buildingWays = append(buildingWays, o)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("osm parse: scan: %w", err)
	}

	var net ports.RoadNetwork
	used := make(map[osm.NodeID]struct{})
	keys := make(map[[2]osm.NodeID]int)

	for _, w := range roads {
		name := strings.TrimSpace(w.tags.Find("name"))
		class := strings.TrimSpace(w.tags.Find("highway"))
		for i := 0; i+1 < len(w.nodes); i++ {
			from, to := w.nodes[i], w.nodes[i+1]
			a, okA := coords[from]
			b, okB := coords[to]
			if !okA || !okB {
				continue
			}
			if w.oneway < 0 {
				from, to = to, from
			}
			pair := [2]osm.NodeID{from, to}
			key := keys[pair]
			keys[pair]++

			net.Edges = append(net.Edges, domain.Edge{
				From:      domain.NodeID(from),
				To:        domain.NodeID(to),
				Key:       key,
				LengthM:   domain.HaversineMeters(a, b),
				Name:      name,
				RoadClass: class,
				Directed:  w.oneway != 0,
			})
			used[from] = struct{}{}
			used[to] = struct{}{}
		}
	}

	for id := range used {
		net.Nodes = append(net.Nodes, domain.Node{ID: domain.NodeID(id), Coord: coords[id]})
	}
	slices.SortFunc(net.Nodes, func(a, b domain.Node) int { return cmp.Compare(a.ID, b.ID) })

	buildings := make([]domain.Building, 0, len(buildingWays))
	for _, w := range buildingWays {
		if b, ok := buildingFromWay(w, coords); ok {
			buildings = append(buildings, b)
		}
	}
	placed := domain.AssignBuildings(net.Nodes, net.Edges, buildings, domain.DefaultBuildingSnapM)
	log.Printf("op=osm_parse roads=%d edges=%d buildings=%d placed=%d", len(roads), len(net.Edges), len(buildings), placed)

	return net, nil
}

// onewayDirection returns 1 for forward one-ways, -1 for reversed ones and
// 0 for two-way roads.
func onewayDirection(tags osm.Tags) int {
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		return 1
	case "-1", "reverse":
		return -1
	case "no", "false", "0":
		return 0
	}
	if tags.Find("junction") == "roundabout" {
		return 1
	}
	return 0
}

func buildingFromWay(w *osm.Way, coords map[osm.NodeID]domain.Coordinates) (domain.Building, bool) {
	var lat, lon float64
	n := 0
	for _, id := range w.Nodes.NodeIDs() {
		c, ok := coords[id]
		if !ok {
			continue
		}
		lat += c.Lat
		lon += c.Lon
		n++
	}
	if n == 0 {
		return domain.Building{}, false
	}

	levels := 1
	if v, err := strconv.ParseFloat(w.Tags.Find("building:levels"), 64); err == nil && v >= 1 {
		levels = int(v)
	}
	return domain.Building{
		Centroid: domain.Coordinates{Lat: lat / float64(n), Lon: lon / float64(n)},
		Type:     w.Tags.Find("building"),
		Levels:   levels,
	}, true
}
