package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/ports"
)

// Initialize the road network schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS road_nodes (
		node_id BIGINT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createEdgesQuery := `
	CREATE TABLE IF NOT EXISTS road_edges (
		from_node BIGINT NOT NULL REFERENCES road_nodes(node_id),
		to_node BIGINT NOT NULL REFERENCES road_nodes(node_id),
		edge_key INTEGER NOT NULL DEFAULT 0,
		length_m DOUBLE PRECISION NOT NULL CHECK (length_m >= 0),
		name TEXT NOT NULL DEFAULT '',
		road_class TEXT NOT NULL DEFAULT '',
		weight DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (weight >= 0),
		oneway BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (from_node, to_node, edge_key)
	);
	`

	createNodeIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_road_nodes_lat_lon
	ON road_nodes(lat, lon);
	`

	createEdgeIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_road_edges_to_node
	ON road_edges(to_node);
	`

	statements := []string{
		createNodesQuery,
		createEdgesQuery,
		createNodeIndexQuery,
		createEdgeIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type NodeSeed struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type EdgeSeed struct {
	From      int64   `json:"from"`
	To        int64   `json:"to"`
	Key       int     `json:"key"`
	LengthM   float64 `json:"length_m"`
	Name      string  `json:"name"`
	RoadClass string  `json:"highway"`
	Weight    float64 `json:"weight"`
	Oneway    bool    `json:"oneway"`
}

type NetworkSeed struct {
	Nodes []NodeSeed `json:"nodes"`
	Edges []EdgeSeed `json:"edges"`
}

// Read and validate a road network seed file.
func ReadSeedFile(jsonPath string) (ports.RoadNetwork, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("read seed: read %q: %w", jsonPath, err)
	}
	return ParseSeed(bytes)
}

func ParseSeed(data []byte) (ports.RoadNetwork, error) {
	var seed NetworkSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("parse seed: parse json: %w", err)
	}

	net := ports.RoadNetwork{
		Nodes: make([]domain.Node, 0, len(seed.Nodes)),
		Edges: make([]domain.Edge, 0, len(seed.Edges)),
	}
	for i, n := range seed.Nodes {
		if n.Lat < -90 || n.Lat > 90 || n.Lon < -180 || n.Lon > 180 {
			return ports.RoadNetwork{}, fmt.Errorf("parse seed: node at index %d: coordinates out of range", i+1)
		}
		net.Nodes = append(net.Nodes, domain.Node{
			ID:    domain.NodeID(n.ID),
			Coord: domain.Coordinates{Lat: n.Lat, Lon: n.Lon},
		})
	}
	for i, e := range seed.Edges {
		if e.LengthM < 0 || e.Weight < 0 {
			return ports.RoadNetwork{}, fmt.Errorf("parse seed: edge at index %d: length and weight must be non-negative", i+1)
		}
		net.Edges = append(net.Edges, domain.Edge{
			From:      domain.NodeID(e.From),
			To:        domain.NodeID(e.To),
			Key:       e.Key,
			LengthM:   e.LengthM,
			Name:      strings.TrimSpace(e.Name),
			RoadClass: strings.TrimSpace(e.RoadClass),
			Weight:    e.Weight,
			Directed:  e.Oneway,
		})
	}

	// Reuse graph validation for unknown and duplicate references.
	if _, err := domain.NewGraph(net.Nodes, net.Edges); err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("parse seed: %w", err)
	}
	return net, nil
}

// Upsert a road network into the database.
func SeedNetwork(ctx context.Context, db *sql.DB, net ports.RoadNetwork) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed network: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	nodeQuery := `
	INSERT INTO road_nodes (node_id, lat, lon)
	VALUES ($1, $2, $3)
	ON CONFLICT (node_id) DO UPDATE SET lat = EXCLUDED.lat, lon = EXCLUDED.lon;
	`
	nodeStmt, err := tx.PrepareContext(ctx, nodeQuery)
	if err != nil {
		return fmt.Errorf("seed network: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range net.Nodes {
		if _, err := nodeStmt.ExecContext(ctx, int64(n.ID), n.Coord.Lat, n.Coord.Lon); err != nil {
			return fmt.Errorf("seed network: insert node_id=%d: %w", n.ID, err)
		}
	}

	edgeQuery := `
	INSERT INTO road_edges (from_node, to_node, edge_key, length_m, name, road_class, weight, oneway)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (from_node, to_node, edge_key) DO UPDATE SET
		length_m = EXCLUDED.length_m,
		name = EXCLUDED.name,
		road_class = EXCLUDED.road_class,
		weight = EXCLUDED.weight,
		oneway = EXCLUDED.oneway;
	`
	edgeStmt, err := tx.PrepareContext(ctx, edgeQuery)
	if err != nil {
		return fmt.Errorf("seed network: prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range net.Edges {
		_, err := edgeStmt.ExecContext(ctx,
			int64(e.From), int64(e.To), e.Key, e.LengthM, e.Name, e.RoadClass, e.Weight, e.Directed)
		if err != nil {
			return fmt.Errorf("seed network: insert edge %d->%d key=%d: %w", e.From, e.To, e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed network: commit tx: %w", err)
	}

	return nil
}
