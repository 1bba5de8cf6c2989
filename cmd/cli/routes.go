package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/broadcast"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/metrics"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/pipeline"
)

// Pinger reports whether the database answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouteManager handles all API routes
type RouteManager struct {
	service        *pipeline.Service
	db             Pinger
	hub            *broadcast.Hub
	metrics        *metrics.Metrics
	allowedOrigins []string
	Router         *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(service *pipeline.Service, db Pinger, hub *broadcast.Hub, m *metrics.Metrics, allowedOrigins []string) *RouteManager {
	return &RouteManager{
		service:        service,
		db:             db,
		hub:            hub,
		metrics:        m,
		allowedOrigins: allowedOrigins,
		Router:         mux.NewRouter(),
	}
}

// Setup configures all API routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.recoveryMiddleware)
	r.Use(rm.corsMiddleware)
	r.Use(rm.loggingMiddleware)

	// Global OPTIONS handler - catches all preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health check and metrics
	r.HandleFunc("/health", rm.healthHandler).Methods("GET")
	if rm.metrics != nil {
		r.Handle("/metrics", rm.metrics.Handler()).Methods("GET")
	}

	// Live channel
	r.Handle("/ws", broadcast.NewHandler(rm.hub, rm.allowedOrigins)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	rm.setupAPIRoutes(api)
}

// setupAPIRoutes configures all API routes
func (rm *RouteManager) setupAPIRoutes(api *mux.Router) {
	// Sensors
	api.HandleFunc("/sensor_data", rm.handle(rm.sensorDataHandler)).Methods("POST")
	api.HandleFunc("/latest", rm.handle(rm.latestHandler)).Methods("GET")
	api.HandleFunc("/logs", rm.handle(rm.logsHandler)).Methods("GET")
	api.HandleFunc("/sensor_history", rm.handle(rm.sensorHistoryHandler)).Methods("GET")

	// Actuators
	api.HandleFunc("/actuator", rm.handle(rm.setActuatorHandler)).Methods("POST")
	api.HandleFunc("/actuator", rm.handle(rm.getActuatorHandler)).Methods("GET")

	// Predictions
	api.HandleFunc("/predict", rm.handle(rm.predictHandler)).Methods("GET")
	api.HandleFunc("/prediction_history", rm.handle(rm.predictionHistoryHandler)).Methods("GET")
}
