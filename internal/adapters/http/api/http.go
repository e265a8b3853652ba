// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/metrics"
)

// Dependencies required by HTTP handlers. The interface bundle keeps the
// handler layer loosely coupled to the coordinator implementation.
type Dependencies interface {
	// Events returns all persisted pothole events newest first.
	Events(ctx context.Context) ([]model.Event, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	eventsHandler *EventsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		eventsHandler: NewEventsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux. The realtime channel and
// metrics endpoints are registered separately by the caller.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleGetEvents, "events"))
	// Path kept for compatibility with the original mobile client.
	mux.HandleFunc("/api/potholes", MetricsMiddleware(s.eventsHandler.HandleGetEvents, "events"))
	mux.Handle("/metrics", metrics.Handler())
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Message: msg})
}
