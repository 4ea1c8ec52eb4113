package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"flyer-route-service/internal/adapters/jobstore"
	"flyer-route-service/internal/domain"
)

type staticSource struct {
	g   *domain.Graph
	err error
}

func (s staticSource) LoadGraph(ctx context.Context, area domain.Area, mode domain.TravelMode) (*domain.Graph, error) {
	return s.g, s.err
}

func testArea(t *testing.T) domain.Area {
	t.Helper()
	area, err := domain.NewCircleArea(domain.Coordinates{Lat: 40.001, Lon: -74.998}, 1000)
	if err != nil {
		t.Fatalf("new area: %v", err)
	}
	return area
}

func TestGenerateRoutes(t *testing.T) {
	g := gridGraph(t, 4, 4, 0)
	jobs := jobstore.NewMemoryJobStore()
	req := GenerateRequest{
		Area:        testArea(t),
		NumRoutes:   3,
		TotalFlyers: 1000,
		Mode:        domain.TravelWalking,
		BalanceBy:   domain.BalanceByWeight,
	}

	job, err := GenerateRoutes(context.Background(), req, staticSource{g: g}, jobs, DefaultGenerateConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(job.ID, "job_") || len(job.ID) != 12 {
		t.Fatalf("job id = %q, want job_ + 8 chars", job.ID)
	}
	stored, err := jobs.Get(context.Background(), job.ID)
	if err != nil || stored != job {
		t.Fatalf("stored job = %v, %v; want the returned job", stored, err)
	}

	if job.Summary.RequestedZones != 3 {
		t.Fatalf("requested zones = %d, want 3", job.Summary.RequestedZones)
	}
	if len(job.Routes) != job.Summary.AchievedZones || len(job.Zones) != len(job.Routes) {
		t.Fatalf("routes = %d zones = %d achieved = %d", len(job.Routes), len(job.Zones), job.Summary.AchievedZones)
	}
	if len(job.Routes) == 0 {
		t.Fatalf("no routes generated")
	}

	// No weights on the grid: addresses come from road length.
	wantAddresses := 0.0
	for _, e := range g.Edges() {
		wantAddresses += domain.EstimateAddressesFromLength(e)
	}
	if job.Summary.TotalEstimatedAddresses != wantAddresses {
		t.Fatalf("total addresses = %v, want %v", job.Summary.TotalEstimatedAddresses, wantAddresses)
	}

	flyers := 0
	minutes := 0
	for i, r := range job.Routes {
		if r.ID != i+1 {
			t.Fatalf("route %d id = %d, want %d", i, r.ID, i+1)
		}
		if r.Color != RouteColors[i] {
			t.Fatalf("route %d color = %s, want %s", i, r.Color, RouteColors[i])
		}
		if r.FailureReason != "" {
			t.Fatalf("route %d failed: %s", i, r.FailureReason)
		}
		if r.EstimatedDurationMin < 1 {
			t.Fatalf("route %d duration = %d, want >= 1", i, r.EstimatedDurationMin)
		}
		if r.AssignedFlyers != job.Zones[i].AssignedFlyers {
			t.Fatalf("route %d flyers = %d, zone has %d", i, r.AssignedFlyers, job.Zones[i].AssignedFlyers)
		}
		flyers += r.AssignedFlyers
		minutes += r.EstimatedDurationMin
	}
	if flyers != 1000 {
		t.Fatalf("assigned flyers = %d, want 1000", flyers)
	}
	if minutes != job.Summary.TotalEstimatedDurationMin {
		t.Fatalf("summary minutes = %d, want %d", job.Summary.TotalEstimatedDurationMin, minutes)
	}

	for _, z := range job.Zones {
		if len(z.Boundary) < 2 || z.Boundary[0] != z.Boundary[len(z.Boundary)-1] {
			t.Fatalf("zone %d boundary is not a closed ring: %v", z.ID, z.Boundary)
		}
	}
}

func TestGenerateRoutesRejectsInvalidRequests(t *testing.T) {
	g := squareGraph(t)
	base := GenerateRequest{Area: testArea(t), NumRoutes: 2, TotalFlyers: 100, Mode: domain.TravelWalking}

	cases := map[string]func(r *GenerateRequest){
		"zero routes":     func(r *GenerateRequest) { r.NumRoutes = 0 },
		"too many routes": func(r *GenerateRequest) { r.NumRoutes = MaxRoutes + 1 },
		"no flyers":       func(r *GenerateRequest) { r.TotalFlyers = 0 },
		"bad mode":        func(r *GenerateRequest) { r.Mode = "flying" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, err := GenerateRoutes(context.Background(), req, staticSource{g: g}, jobstore.NewMemoryJobStore(), DefaultGenerateConfig())
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestGenerateRoutesEmptyArea(t *testing.T) {
	empty := mustGraph(t, nil, nil)
	req := GenerateRequest{Area: testArea(t), NumRoutes: 2, TotalFlyers: 100, Mode: domain.TravelWalking}

	_, err := GenerateRoutes(context.Background(), req, staticSource{g: empty}, jobstore.NewMemoryJobStore(), DefaultGenerateConfig())
	if !errors.Is(err, domain.ErrEmptyArea) {
		t.Fatalf("err = %v, want ErrEmptyArea", err)
	}
}

func TestGenerateRoutesLoadError(t *testing.T) {
	boom := errors.New("store down")
	req := GenerateRequest{Area: testArea(t), NumRoutes: 2, TotalFlyers: 100, Mode: domain.TravelWalking}

	_, err := GenerateRoutes(context.Background(), req, staticSource{err: boom}, jobstore.NewMemoryJobStore(), DefaultGenerateConfig())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped load error", err)
	}
}
