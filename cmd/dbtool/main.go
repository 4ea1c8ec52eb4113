package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"flyer-route-service/internal/adapters/osmfile"
	"flyer-route-service/internal/adapters/repositories"
	"flyer-route-service/internal/config"
	"flyer-route-service/internal/platform/db"
	"flyer-route-service/internal/ports"
)

// dbtool creates the road network schema and loads a network from a JSON
// seed or an OSM XML extract, chosen by the SEED_PATH extension.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/network.json")
	if err := initAndSeed(ctx, conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	net, err := readNetwork(ctx, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Printf("Seeding database... path=%s nodes=%d edges=%d", seedPath, len(net.Nodes), len(net.Edges))
	if err := repositories.SeedNetwork(ctx, conn, net); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")
	return nil
}

func readNetwork(ctx context.Context, path string) (ports.RoadNetwork, error) {
	if strings.EqualFold(filepath.Ext(path), ".osm") {
		f, err := os.Open(path)
		if err != nil {
			return ports.RoadNetwork{}, fmt.Errorf("read network: open %q: %w", path, err)
		}
		defer f.Close()
		return osmfile.Parse(ctx, f)
	}
	return repositories.ReadSeedFile(path)
}
