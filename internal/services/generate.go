package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"flyer-route-service/internal/algo"
	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/platform/obs"
	"flyer-route-service/internal/ports"
)

const (
	MinRoutes = 1
	MaxRoutes = 20

	DefaultRouteWorkers = 4
	DefaultZoneTimeout  = 30 * time.Second
)

var RouteColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#34495e", "#c0392b", "#2980b9",
	"#27ae60", "#d35400", "#8e44ad", "#16a085", "#f1c40f",
	"#7f8c8d", "#2c3e50", "#d63031", "#0984e3", "#00b894",
}

// ErrInvalidRequest marks request validation failures.
var ErrInvalidRequest = errors.New("invalid request")

type GenerateRequest struct {
	Area          domain.Area
	NumRoutes     int
	TotalFlyers   int
	Mode          domain.TravelMode
	Start         *domain.Coordinates
	ReturnToStart bool
	BalanceBy     domain.BalanceBy
}

type GenerateConfig struct {
	Partition       PartitionOptions
	RouteWorkers    int
	ZoneTimeout     time.Duration
	ExactMatchLimit int
	MaxOddNodes     int
}

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Partition:    DefaultPartitionOptions(),
		RouteWorkers: DefaultRouteWorkers,
		ZoneTimeout:  DefaultZoneTimeout,
	}
}

func (r GenerateRequest) validate() error {
	if r.NumRoutes < MinRoutes || r.NumRoutes > MaxRoutes {
		return fmt.Errorf("%w: num_routes must be between %d and %d", ErrInvalidRequest, MinRoutes, MaxRoutes)
	}
	if r.TotalFlyers <= 0 {
		return fmt.Errorf("%w: total_flyers must be > 0", ErrInvalidRequest)
	}
	if r.Mode != domain.TravelWalking && r.Mode != domain.TravelDriving {
		return fmt.Errorf("%w: unknown travel mode %q", ErrInvalidRequest, r.Mode)
	}
	return nil
}

// GenerateRoutes loads the area graph, splits it into zones, builds one
// route per zone and stores the finished job.
//
// Zone routes run concurrently, each under its own timeout. A failed or
// timed-out zone is reported on its route and never fails the job.
func GenerateRoutes(
	ctx context.Context,
	req GenerateRequest,
	graphs ports.GraphSource,
	jobs ports.JobStore,
	cfg GenerateConfig,
) (_ *domain.Job, err error) {
	defer obs.Time(ctx, "generate_routes")(&err)
	defer func() {
		if err != nil {
			obs.JobsTotal.WithLabelValues("error").Inc()
		} else {
			obs.JobsTotal.WithLabelValues("ok").Inc()
		}
	}()

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}

	g, err := graphs.LoadGraph(ctx, req.Area, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("generate routes: load graph: %w", err)
	}
	if g == nil || g.NumEdges() == 0 {
		return nil, fmt.Errorf("generate routes: %w", domain.ErrEmptyArea)
	}
	log.Printf("req_id=%s op=generate_routes nodes=%d edges=%d length_m=%.0f",
		obs.RequestID(ctx), g.NumNodes(), g.NumEdges(), g.TotalLength())

	if g.TotalWeight() == 0 {
		log.Printf("req_id=%s op=generate_routes msg=%q", obs.RequestID(ctx), "no address weights, estimating from road length")
		g = g.WithWeights(domain.EstimateAddressesFromLength)
	}

	popts := cfg.Partition
	if req.BalanceBy != "" {
		popts.BalanceBy = req.BalanceBy
	}
	part, err := Partition(ctx, g, req.NumRoutes, popts)
	if err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}
	if part.Shortfall != nil {
		log.Printf("req_id=%s op=generate_routes warn=%q", obs.RequestID(ctx), part.Shortfall)
	}

	weights := make([]float64, len(part.Zones))
	for i, z := range part.Zones {
		weights[i] = z.Weight
	}
	flyers, err := Allocate(req.TotalFlyers, weights)
	if err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}

	routes := buildZoneRoutes(ctx, g, part, req, cfg)

	job := &domain.Job{
		ID:         NewJobID(),
		CreatedAt:  time.Now().UTC(),
		TravelMode: req.Mode,
		BalanceBy:  part.BalanceBy,
	}
	job.Summary.RequestedZones = req.NumRoutes
	job.Summary.AchievedZones = len(part.Zones)
	job.Summary.DroppedEdges = len(part.Dropped)

	for i, z := range part.Zones {
		job.Zones = append(job.Zones, summarizeZone(g, z, flyers[i]))
		if z.BalanceWarning != nil {
			obs.UnbalancedZonesTotal.Inc()
		}

		r := routes[i]
		r.ID = i + 1
		minutes := 0
		if r.FailureReason == "" {
			minutes = max(1, int(req.Mode.DurationMinutes(r.TotalDistanceM)))
		}
		jr := domain.JobRoute{
			Route:                *r,
			Color:                RouteColors[i%len(RouteColors)],
			AssignedFlyers:       flyers[i],
			EstimatedAddresses:   z.Weight,
			EstimatedDurationMin: minutes,
		}
		job.Routes = append(job.Routes, jr)

		job.Summary.TotalEstimatedAddresses += z.Weight
		job.Summary.TotalDistanceM += r.TotalDistanceM
		job.Summary.TotalEstimatedDurationMin += minutes
		job.Summary.UncoveredEdges += len(r.UncoveredEdges)
	}
	obs.UncoveredEdgesTotal.Add(float64(job.Summary.UncoveredEdges))

	if err := jobs.Put(ctx, job); err != nil {
		return nil, fmt.Errorf("generate routes: store job %s: %w", job.ID, err)
	}
	return job, nil
}

// buildZoneRoutes builds all zone routes with at most cfg.RouteWorkers in
// flight. Results are indexed like part.Zones.
func buildZoneRoutes(
	ctx context.Context,
	g *domain.Graph,
	part *domain.Partition,
	req GenerateRequest,
	cfg GenerateConfig,
) []*domain.Route {
	workers := cfg.RouteWorkers
	if workers <= 0 {
		workers = DefaultRouteWorkers
	}
	timeout := cfg.ZoneTimeout
	if timeout <= 0 {
		timeout = DefaultZoneTimeout
	}

	opts := RouteOptions{
		Start:           req.Start,
		ReturnToStart:   req.ReturnToStart,
		Mode:            req.Mode,
		ExactMatchLimit: cfg.ExactMatchLimit,
		MaxOddNodes:     cfg.MaxOddNodes,
	}

	routes := make([]*domain.Route, len(part.Zones))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, zone := range part.Zones {
		i, zone := i, zone
		eg.Go(func() error {
			zctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			r := BuildRoute(zctx, g, zone, opts)
			obs.RouteBuildDuration.WithLabelValues(string(r.Algorithm)).Observe(time.Since(start).Seconds())

			if r.FailureReason != "" {
				log.Printf("req_id=%s op=build_route zone=%d err=%q", obs.RequestID(ctx), zone.ID, r.FailureReason)
			} else if r.Coverage != nil {
				log.Printf("req_id=%s op=build_route warn=%q", obs.RequestID(ctx), r.Coverage)
			}
			routes[i] = r
			// Zone failures live on the route; siblings keep running.
			return nil
		})
	}
	_ = eg.Wait()
	return routes
}

func summarizeZone(g *domain.Graph, z *domain.Zone, flyers int) domain.ZoneSummary {
	coords := make([]domain.Coordinates, 0, len(z.NodeIDs))
	pts := make([][2]float64, 0, len(z.NodeIDs))
	for _, id := range z.NodeIDs {
		n, _ := g.Node(id)
		coords = append(coords, n.Coord)
		pts = append(pts, [2]float64{n.Coord.Lon, n.Coord.Lat})
	}

	hull := algo.ConvexHull(pts)
	boundary := make([]domain.Coordinates, len(hull))
	for i, p := range hull {
		boundary[i] = domain.Coordinates{Lat: p[1], Lon: p[0]}
	}

	return domain.ZoneSummary{
		ID:             z.ID,
		Weight:         z.Weight,
		LengthM:        z.LengthM,
		NumEdges:       len(z.EdgeIDs),
		NumNodes:       len(z.NodeIDs),
		AssignedFlyers: flyers,
		Boundary:       boundary,
		Bounds:         domain.BoundsOf(coords),
		Deviation:      z.Deviation,
		BalanceWarning: z.BalanceWarning,
	}
}

// NewJobID returns an id of the form job_<8 hex>.
func NewJobID() string {
	return "job_" + uuid.NewString()[:8]
}
