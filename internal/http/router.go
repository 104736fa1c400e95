package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"route-backend/internal/handlers"
	"route-backend/internal/health"
	"route-backend/internal/live"
	"route-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	importHandler *handlers.ImportHandler,
	runHandler *handlers.RunHandler,
	pickHandler *handlers.PickHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	entityHandler *handlers.EntityHandler,
	boxHandler *handlers.BoxHandler,
	healthHandler *health.Handler,
	hub *live.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Live run feed; the socket carries no data beyond run IDs, the token
	// handshake happens over the first HTTP request like any other route.
	r.HandleFunc("/api/live", hub.HandleWS)

	// Imports
	importsAPI := r.PathPrefix("/api/imports").Subrouter()
	importsAPI.Use(authMiddleware.Authenticate)
	importsAPI.HandleFunc("/reconcile", importHandler.Reconcile).Methods("POST")
	importsAPI.HandleFunc("/upload", importHandler.Upload).Methods("POST")
	importsAPI.HandleFunc("", importHandler.List).Methods("GET")

	// Runs and their lifecycle
	runsAPI := r.PathPrefix("/api/runs").Subrouter()
	runsAPI.Use(authMiddleware.Authenticate)
	runsAPI.HandleFunc("", runHandler.Create).Methods("POST")
	runsAPI.HandleFunc("", runHandler.List).Methods("GET")
	runsAPI.HandleFunc("/{id}", runHandler.Get).Methods("GET")
	runsAPI.HandleFunc("/{id}/schedule", runHandler.Schedule).Methods("POST")
	runsAPI.HandleFunc("/{id}/start", runHandler.StartDelivery).Methods("POST")
	runsAPI.HandleFunc("/{id}/complete", runHandler.CompleteDelivery).Methods("POST")
	runsAPI.HandleFunc("/{id}/cancel", runHandler.Cancel).Methods("POST")
	runsAPI.HandleFunc("/{id}/archive", runHandler.Archive).Methods("POST")

	// Picking
	runsAPI.HandleFunc("/{id}/picks/generate", pickHandler.Generate).Methods("POST")
	runsAPI.HandleFunc("/{id}/picks/status", pickHandler.SetStatus).Methods("PATCH")
	runsAPI.HandleFunc("/{id}/picks/reset", pickHandler.Reset).Methods("POST")
	runsAPI.HandleFunc("/{id}/picks/{pickId}/override", pickHandler.SetOverride).Methods("PUT")
	runsAPI.HandleFunc("/{id}/picks/{pickId}/expiry", pickHandler.SetExpiries).Methods("PUT")
	runsAPI.HandleFunc("/{id}/picks/{pickId}/substitute", pickHandler.Substitute).Methods("POST")
	runsAPI.HandleFunc("/{id}/sheet.pdf", pickHandler.SheetPDF).Methods("GET")
	runsAPI.HandleFunc("/{id}/sheet.csv", pickHandler.SheetCSV).Methods("GET")

	// Chocolate boxes
	runsAPI.HandleFunc("/{id}/boxes", boxHandler.Create).Methods("POST")
	runsAPI.HandleFunc("/{id}/boxes", boxHandler.List).Methods("GET")
	runsAPI.HandleFunc("/{id}/boxes/{boxId}", boxHandler.Delete).Methods("DELETE")

	// Analytics
	analyticsAPI := r.PathPrefix("/api/analytics").Subrouter()
	analyticsAPI.Use(authMiddleware.Authenticate)
	analyticsAPI.HandleFunc("/breakdown", analyticsHandler.Breakdown).Methods("GET")
	analyticsAPI.HandleFunc("/momentum", analyticsHandler.Momentum).Methods("GET")

	// Entity reads and SKU settings
	entitiesAPI := r.PathPrefix("/api").Subrouter()
	entitiesAPI.Use(authMiddleware.Authenticate)
	entitiesAPI.HandleFunc("/locations", entityHandler.ListLocations).Methods("GET")
	entitiesAPI.HandleFunc("/machines", entityHandler.ListMachines).Methods("GET")
	entitiesAPI.HandleFunc("/skus", entityHandler.ListSKUs).Methods("GET")
	entitiesAPI.Handle("/skus/{id}/pointer",
		authMiddleware.RequireAdmin(http.HandlerFunc(entityHandler.UpdatePointer))).Methods("PUT")
	entitiesAPI.Handle("/skus/{id}/expiry-days",
		authMiddleware.RequireAdmin(http.HandlerFunc(entityHandler.UpdateExpiryDays))).Methods("PUT")

	return r
}
