package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"flyer-route-service/internal/adapters/graphsource"
	"flyer-route-service/internal/adapters/jobstore"
	"flyer-route-service/internal/adapters/osmfile"
	"flyer-route-service/internal/adapters/repositories"
	"flyer-route-service/internal/api"
	"flyer-route-service/internal/config"
	"flyer-route-service/internal/platform/db"
	"flyer-route-service/internal/ports"
	"flyer-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or an OSM extract, memory or Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	roads, closeRoads, err := openRoadNetwork(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRoads()

	jobs, closeJobs, err := openJobStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeJobs()

	// Concurrent requests for the same area share one graph load.
	graphs := graphsource.NewSharedSource(graphsource.NewRepositorySource(roads))

	genCfg := services.DefaultGenerateConfig()
	genCfg.RouteWorkers = cfg.RouteWorkers
	genCfg.ZoneTimeout = cfg.ZoneTimeout
	genCfg.Partition.Seed = cfg.PartitionSeed
	genCfg.Partition.Restarts = cfg.KMeansRestarts
	genCfg.Partition.Tolerance = cfg.BalanceTolerance

	router := api.NewRouter(graphs, jobs, genCfg)

	log.Printf("Server listening addr=:%s graph_source=%s job_store=%s", cfg.Port, cfg.GraphSource, cfg.JobStore)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openRoadNetwork(ctx context.Context, cfg config.Config) (ports.RoadNetworkRepository, func(), error) {
	switch cfg.GraphSource {
	case config.GraphSourcePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open road network: %w", err)
		}
		return repositories.NewPostgresRoadNetworkRepository(conn), closeDB(conn), nil
	default:
		return osmfile.NewOSMRoadNetworkRepository(cfg.OSMPath), func() {}, nil
	}
}

func openJobStore(ctx context.Context, cfg config.Config) (ports.JobStore, func(), error) {
	if cfg.JobStore != config.JobStoreRedis {
		return jobstore.NewMemoryJobStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("open job store: ping redis %s: %w", cfg.RedisAddr, err)
	}
	return jobstore.NewRedisJobStore(client, cfg.JobTTL), func() { _ = client.Close() }, nil
}

func closeDB(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}
}
