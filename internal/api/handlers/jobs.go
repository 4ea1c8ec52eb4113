package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"flyer-route-service/internal/api/dto"
	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/platform/obs"
	"flyer-route-service/internal/ports"
)

type JobHandler struct {
	Jobs ports.JobStore
}

// Job serves GET and DELETE on a stored job.
func (h *JobHandler) Job(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	id := mux.Vars(r)["id"]

	if r.Method == http.MethodDelete {
		err := h.Jobs.Evict(r.Context(), id)
		if !h.handleLookupError(w, r, err) {
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted", "job_id": id})
		return
	}

	job, err := h.Jobs.Get(r.Context(), id)
	if !h.handleLookupError(w, r, err) {
		return
	}
	writeJSON(w, r, http.StatusOK, toJobResponse(job))
}

// Route returns a single route of a stored job.
func (h *JobHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	vars := mux.Vars(r)

	routeID, err := strconv.Atoi(vars["routeID"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "route id must be an integer")
		return
	}

	job, err := h.Jobs.Get(r.Context(), vars["id"])
	if !h.handleLookupError(w, r, err) {
		return
	}

	route, ok := job.FindRoute(routeID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "Route not found")
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteResponse(*route))
}

// handleLookupError writes the response for a failed job lookup and
// reports whether the caller should continue.
func (h *JobHandler) handleLookupError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ports.ErrJobNotFound):
		writeError(w, r, http.StatusNotFound, "Job not found")
	default:
		log.Printf("req_id=%s job lookup failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
	return false
}

func toJobResponse(job *domain.Job) dto.JobResponse {
	res := dto.JobResponse{
		JobID:      job.ID,
		Status:     "completed",
		CreatedAt:  job.CreatedAt,
		TravelMode: string(job.TravelMode),
		BalanceBy:  string(job.BalanceBy),
		Zones:      make([]dto.ZoneResponse, 0, len(job.Zones)),
		Routes:     make([]dto.RouteResponse, 0, len(job.Routes)),
		Summary: dto.SummaryResponse{
			TotalAddressesEstimated:   job.Summary.TotalEstimatedAddresses,
			TotalDistanceM:            job.Summary.TotalDistanceM,
			TotalEstimatedDurationMin: job.Summary.TotalEstimatedDurationMin,
			RequestedZones:            job.Summary.RequestedZones,
			AchievedZones:             job.Summary.AchievedZones,
			DroppedEdges:              job.Summary.DroppedEdges,
			UncoveredEdges:            job.Summary.UncoveredEdges,
		},
	}

	for _, z := range job.Zones {
		zr := dto.ZoneResponse{
			ZoneID:             z.ID,
			EstimatedAddresses: z.Weight,
			TotalLengthM:       z.LengthM,
			NumEdges:           z.NumEdges,
			NumNodes:           z.NumNodes,
			AssignedFlyers:     z.AssignedFlyers,
			Boundary:           latLngs(z.Boundary),
			Bounds: dto.BoundsResponse{
				MinLat: z.Bounds.MinLat,
				MinLng: z.Bounds.MinLon,
				MaxLat: z.Bounds.MaxLat,
				MaxLng: z.Bounds.MaxLon,
			},
			Deviation: z.Deviation,
		}
		if z.BalanceWarning != nil {
			zr.Warning = z.BalanceWarning.Error()
		}
		res.Zones = append(res.Zones, zr)
	}

	for _, r := range job.Routes {
		res.Routes = append(res.Routes, toRouteResponse(r))
	}
	return res
}

func toRouteResponse(r domain.JobRoute) dto.RouteResponse {
	dirs := make([]dto.DirectionResponse, 0, len(r.Directions))
	for _, d := range r.Directions {
		dirs = append(dirs, dto.DirectionResponse{
			Step:        d.Step,
			Instruction: d.Instruction,
			Street:      d.Street,
			DistanceM:   d.DistanceM,
		})
	}

	res := dto.RouteResponse{
		RouteID:              r.ID,
		ZoneID:               r.ZoneID,
		Color:                r.Color,
		AssignedFlyers:       r.AssignedFlyers,
		EstimatedAddresses:   r.EstimatedAddresses,
		TotalDistanceM:       r.TotalDistanceM,
		DuplicateDistanceM:   r.DuplicateDistanceM,
		EstimatedDurationMin: r.EstimatedDurationMin,
		Algorithm:            string(r.Algorithm),
		TurnByTurn:           dirs,
		Waypoints:            latLngs(r.Waypoints),
		UncoveredEdges:       len(r.UncoveredEdges),
		ReturnLegMissing:     r.ReturnLegMissing,
		Error:                r.FailureReason,
	}
	if r.Coverage != nil {
		res.Warning = r.Coverage.Error()
	}
	return res
}

func latLngs(coords []domain.Coordinates) [][2]float64 {
	out := make([][2]float64, len(coords))
	for i, c := range coords {
		out[i] = [2]float64{c.Lat, c.Lon}
	}
	return out
}
