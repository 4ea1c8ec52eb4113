package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flyer_op_duration_seconds",
		Help:    "Duration of timed operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "result"})

	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flyer_jobs_total",
		Help: "Route generation jobs by outcome",
	}, []string{"result"})

	RouteBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flyer_route_build_duration_seconds",
		Help:    "Per-zone route build duration by algorithm",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"algorithm"})

	UncoveredEdgesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flyer_uncovered_edges_total",
		Help: "Zone edges left off generated routes",
	})

	UnbalancedZonesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flyer_unbalanced_zones_total",
		Help: "Zones outside the balance tolerance band",
	})

	GraphLoadsShared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flyer_graph_loads_shared_total",
		Help: "Graph loads served by joining an in-flight load",
	})
)
