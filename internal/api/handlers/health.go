package handlers

import (
	"net/http"

	"flyer-route-service/internal/api/dto"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Message: "flyer route service is running",
	})
}
