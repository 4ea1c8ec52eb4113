package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	GraphSourcePostgres = "postgres"
	GraphSourceOSM      = "osm"

	JobStoreMemory = "memory"
	JobStoreRedis  = "redis"
)

type Config struct {
	Port        string
	GraphSource string
	DatabaseURL string
	OSMPath     string

	JobStore  string
	RedisAddr string
	JobTTL    time.Duration

	RouteWorkers     int
	ZoneTimeout      time.Duration
	PartitionSeed    int64
	KMeansRestarts   int
	BalanceTolerance float64
}

// Get returns the trimmed environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the server configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		GraphSource: strings.ToLower(Get("GRAPH_SOURCE", GraphSourceOSM)),
		DatabaseURL: Get("DATABASE_URL", ""),
		OSMPath:     Get("OSM_PATH", "data/area.osm"),
		JobStore:    strings.ToLower(Get("JOB_STORE", JobStoreMemory)),
		RedisAddr:   Get("REDIS_ADDR", "localhost:6379"),
	}

	var err error
	if cfg.JobTTL, err = getDuration("JOB_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RouteWorkers, err = getInt("ROUTE_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.ZoneTimeout, err = getDuration("ZONE_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	seed, err := getInt("PARTITION_SEED", 42)
	if err != nil {
		return Config{}, err
	}
	cfg.PartitionSeed = int64(seed)
	if cfg.KMeansRestarts, err = getInt("KMEANS_RESTARTS", 10); err != nil {
		return Config{}, err
	}
	if cfg.BalanceTolerance, err = getFloat("BALANCE_TOLERANCE", 0.15); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.GraphSource {
	case GraphSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when GRAPH_SOURCE=%s", GraphSourcePostgres)
		}
	case GraphSourceOSM:
		if c.OSMPath == "" {
			return fmt.Errorf("config: OSM_PATH is required when GRAPH_SOURCE=%s", GraphSourceOSM)
		}
	default:
		return fmt.Errorf("config: unknown GRAPH_SOURCE %q", c.GraphSource)
	}

	switch c.JobStore {
	case JobStoreMemory, JobStoreRedis:
	default:
		return fmt.Errorf("config: unknown JOB_STORE %q", c.JobStore)
	}

	if c.RouteWorkers < 1 {
		return fmt.Errorf("config: ROUTE_WORKERS must be >= 1, got %d", c.RouteWorkers)
	}
	if c.ZoneTimeout <= 0 {
		return fmt.Errorf("config: ZONE_TIMEOUT must be positive, got %s", c.ZoneTimeout)
	}
	if c.KMeansRestarts < 1 {
		return fmt.Errorf("config: KMEANS_RESTARTS must be >= 1, got %d", c.KMeansRestarts)
	}
	if c.BalanceTolerance <= 0 || c.BalanceTolerance >= 1 {
		return fmt.Errorf("config: BALANCE_TOLERANCE must be in (0, 1), got %v", c.BalanceTolerance)
	}
	return nil
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
