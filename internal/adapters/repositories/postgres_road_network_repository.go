package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/platform/obs"
	"flyer-route-service/internal/ports"
)

// Postgres-backed implementation of the RoadNetworkRepository port.
type PostgresRoadNetworkRepository struct{ DB *sql.DB }

func NewPostgresRoadNetworkRepository(db *sql.DB) *PostgresRoadNetworkRepository {
	return &PostgresRoadNetworkRepository{DB: db}
}

// Return nodes inside bounds plus every edge touching one of them. Far
// endpoints of boundary edges are included so edges stay well-formed.
func (r *PostgresRoadNetworkRepository) LoadRoadNetwork(ctx context.Context, b domain.Bounds) (_ ports.RoadNetwork, err error) {
	defer obs.Time(ctx, "load_road_network")(&err)

	if r.DB == nil {
		return ports.RoadNetwork{}, errors.New("postgres road network repository: DB is nil")
	}

	edgeQuery := `
	SELECT e.from_node, e.to_node, e.edge_key, e.length_m, e.name, e.road_class, e.weight, e.oneway
	FROM road_edges e
	WHERE EXISTS (
		SELECT 1 FROM road_nodes n
		WHERE n.node_id IN (e.from_node, e.to_node)
		AND n.lat BETWEEN $1 AND $2
		AND n.lon BETWEEN $3 AND $4
	)
	ORDER BY e.from_node, e.to_node, e.edge_key;
	`
	rows, err := r.DB.QueryContext(ctx, edgeQuery, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	if err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("load road network: query road_edges: %w", err)
	}
	defer rows.Close()

	var net ports.RoadNetwork
	ids := make(map[int64]struct{})
	for rows.Next() {
		var (
			from, to int64
			e        domain.Edge
		)
		if err := rows.Scan(&from, &to, &e.Key, &e.LengthM, &e.Name, &e.RoadClass, &e.Weight, &e.Directed); err != nil {
			return ports.RoadNetwork{}, fmt.Errorf("load road network: scan edge row: %w", err)
		}
		e.From, e.To = domain.NodeID(from), domain.NodeID(to)
		net.Edges = append(net.Edges, e)
		ids[from] = struct{}{}
		ids[to] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("load road network: edge row iteration: %w", err)
	}
	if len(ids) == 0 {
		return net, nil
	}

	nodeIDs := make([]int64, 0, len(ids))
	for id := range ids {
		nodeIDs = append(nodeIDs, id)
	}

	nodeQuery := `
	SELECT node_id, lat, lon
	FROM road_nodes
	WHERE node_id = ANY($1)
	ORDER BY node_id;
	`
	nodeRows, err := r.DB.QueryContext(ctx, nodeQuery, nodeIDs)
	if err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("load road network: query road_nodes: %w", err)
	}
	defer nodeRows.Close()

	net.Nodes = make([]domain.Node, 0, len(nodeIDs))
	for nodeRows.Next() {
		var (
			id int64
			n  domain.Node
		)
		if err := nodeRows.Scan(&id, &n.Coord.Lat, &n.Coord.Lon); err != nil {
			return ports.RoadNetwork{}, fmt.Errorf("load road network: scan node row: %w", err)
		}
		n.ID = domain.NodeID(id)
		net.Nodes = append(net.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return ports.RoadNetwork{}, fmt.Errorf("load road network: node row iteration: %w", err)
	}

	return net, nil
}
