package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Strategy runs and signals
	api.HandleFunc("/users/{id}/run", handler.RunUserStrategies).Methods("POST")
	api.HandleFunc("/users/{id}/signals", handler.GetUserSignals).Methods("GET")
	api.HandleFunc("/signals/{id}", handler.GetSignal).Methods("GET")
	api.HandleFunc("/signals/{id}/approve", handler.ApproveSignal).Methods("POST")

	// Strategy configuration
	api.HandleFunc("/users/{id}/strategies", handler.GetUserStrategies).Methods("GET")
	api.HandleFunc("/strategies", handler.CreateStrategy).Methods("POST")
	api.HandleFunc("/strategies/{id}", handler.UpdateStrategy).Methods("PUT")
	api.HandleFunc("/strategies/{id}", handler.DeleteStrategy).Methods("DELETE")

	// Automation preferences
	api.HandleFunc("/users/{id}/strategies/{strategyId}/automation", handler.GetAutomationPreference).Methods("GET")
	api.HandleFunc("/users/{id}/strategies/{strategyId}/automation", handler.PutAutomationPreference).Methods("PUT")

	return r
}
