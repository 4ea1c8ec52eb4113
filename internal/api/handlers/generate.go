package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"flyer-route-service/internal/api/dto"
	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/platform/obs"
	"flyer-route-service/internal/ports"
	"flyer-route-service/internal/services"
)

const (
	defaultNumRoutes   = 4
	defaultTotalFlyers = 1000
)

const msgNoRoads = "No roads found in the specified area. Try a larger area."

type GenerateHandler struct {
	Graphs ports.GraphSource
	Jobs   ports.JobStore
	Config services.GenerateConfig
}

// Generate validates a route request, runs the generation pipeline and
// returns the finished job.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req dto.GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		if errors.Is(err, errTrailingData) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	svcReq, err := toGenerateRequest(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := services.GenerateRoutes(r.Context(), svcReq, h.Graphs, h.Jobs, h.Config)
	switch {
	case errors.Is(err, domain.ErrEmptyArea):
		writeError(w, r, http.StatusBadRequest, msgNoRoads)
		return
	case errors.Is(err, services.ErrInvalidRequest):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("req_id=%s generate routes failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toJobResponse(job))
}

func toGenerateRequest(req dto.GenerateRequest) (services.GenerateRequest, error) {
	area, err := toArea(req.Area)
	if err != nil {
		return services.GenerateRequest{}, err
	}

	numRoutes := defaultNumRoutes
	if req.NumRoutes != nil {
		numRoutes = *req.NumRoutes
	}
	if numRoutes < services.MinRoutes || numRoutes > services.MaxRoutes {
		return services.GenerateRequest{}, fmt.Errorf("num_routes must be between %d and %d", services.MinRoutes, services.MaxRoutes)
	}

	totalFlyers := defaultTotalFlyers
	if req.TotalFlyers != nil {
		totalFlyers = *req.TotalFlyers
	}
	if totalFlyers < 1 {
		return services.GenerateRequest{}, errors.New("total_flyers must be at least 1")
	}

	mode, err := domain.ParseTravelMode(req.TravelMode)
	if err != nil {
		return services.GenerateRequest{}, errors.New("travel_mode must be 'walking' or 'driving'")
	}
	balanceBy, err := domain.ParseBalanceBy(req.BalancePriority)
	if err != nil {
		return services.GenerateRequest{}, errors.New("balance_priority must be 'density' or 'area'")
	}

	var start *domain.Coordinates
	if req.StartPoint != nil {
		c, err := toCoordinates(*req.StartPoint, "start_point")
		if err != nil {
			return services.GenerateRequest{}, err
		}
		start = &c
	}

	return services.GenerateRequest{
		Area:          area,
		NumRoutes:     numRoutes,
		TotalFlyers:   totalFlyers,
		Mode:          mode,
		Start:         start,
		ReturnToStart: req.ReturnToStart,
		BalanceBy:     balanceBy,
	}, nil
}

func toArea(a dto.AreaRequest) (domain.Area, error) {
	switch a.Type {
	case string(domain.AreaCircle):
		if a.Center == nil {
			return domain.Area{}, errors.New("area.center is required for a circle")
		}
		center, err := toCoordinates(*a.Center, "area.center")
		if err != nil {
			return domain.Area{}, err
		}
		return domain.NewCircleArea(center, a.RadiusM)

	case string(domain.AreaPolygon):
		points := make([]domain.Coordinates, 0, len(a.Points))
		for i, p := range a.Points {
			c, err := toCoordinates(p, fmt.Sprintf("area.points[%d]", i))
			if err != nil {
				return domain.Area{}, err
			}
			points = append(points, c)
		}
		return domain.NewPolygonArea(points)
	}
	return domain.Area{}, errors.New("area.type must be 'circle' or 'polygon'")
}

func toCoordinates(p dto.LatLng, field string) (domain.Coordinates, error) {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return domain.Coordinates{}, fmt.Errorf("%s is out of range", field)
	}
	return domain.Coordinates{Lat: p.Lat, Lon: p.Lng}, nil
}
