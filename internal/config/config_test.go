package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GRAPH_SOURCE", "JOB_STORE", "ROUTE_WORKERS", "ZONE_TIMEOUT", "PARTITION_SEED", "KMEANS_RESTARTS", "BALANCE_TOLERANCE", "JOB_TTL", "OSM_PATH"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.GraphSource != GraphSourceOSM || cfg.JobStore != JobStoreMemory {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.RouteWorkers != 4 || cfg.ZoneTimeout != 30*time.Second || cfg.PartitionSeed != 42 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.KMeansRestarts != 10 || cfg.BalanceTolerance != 0.15 || cfg.JobTTL != 24*time.Hour {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GRAPH_SOURCE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/roads")
	t.Setenv("JOB_STORE", "redis")
	t.Setenv("ROUTE_WORKERS", "8")
	t.Setenv("ZONE_TIMEOUT", "5s")
	t.Setenv("BALANCE_TOLERANCE", "0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GraphSource != GraphSourcePostgres || cfg.JobStore != JobStoreRedis {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.RouteWorkers != 8 || cfg.ZoneTimeout != 5*time.Second || cfg.BalanceTolerance != 0.2 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ROUTE_WORKERS", "many"},
		{"ROUTE_WORKERS", "0"},
		{"ZONE_TIMEOUT", "soon"},
		{"BALANCE_TOLERANCE", "1.5"},
		{"GRAPH_SOURCE", "overpass"},
		{"JOB_STORE", "disk"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv("GRAPH_SOURCE", "")
			t.Setenv("JOB_STORE", "")
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadPostgresNeedsURL(t *testing.T) {
	t.Setenv("GRAPH_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}
