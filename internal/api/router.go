package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flyer-route-service/internal/api/handlers"
	"flyer-route-service/internal/ports"
	"flyer-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers only see ports; concrete adapters are chosen in cmd/server.
func NewRouter(graphs ports.GraphSource, jobs ports.JobStore, cfg services.GenerateConfig) http.Handler {
	r := mux.NewRouter()

	genHandler := &handlers.GenerateHandler{
		Graphs: graphs,
		Jobs:   jobs,
		Config: cfg,
	}
	jobHandler := &handlers.JobHandler{Jobs: jobs}

	r.HandleFunc("/api/health", handlers.Health)
	r.HandleFunc("/api/generate", genHandler.Generate)
	r.HandleFunc("/api/jobs/{id}", jobHandler.Job)
	r.HandleFunc("/api/jobs/{id}/routes/{routeID}", jobHandler.Route)
	r.Handle("/metrics", promhttp.Handler())

	r.Use(requestIDMiddleware, loggingMiddleware)
	return r
}
