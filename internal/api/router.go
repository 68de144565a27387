package api

import (
	"lawn-route-service/internal/api/handlers"
	"lawn-route-service/internal/platform/metrics"
	"lawn-route-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(clients *services.ClientService, planner *services.Planner, defaults handlers.Defaults) http.Handler {
	mux := http.NewServeMux()

	clientHandler := &handlers.ClientHandler{Service: clients}
	groupHandler := &handlers.GroupHandler{Planner: planner, Defaults: defaults}
	routeHandler := &handlers.RouteHandler{Planner: planner, Defaults: defaults}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/clients", clientHandler.Collection)
	mux.HandleFunc("/clients/{id}", clientHandler.Item)
	mux.HandleFunc("/groups", groupHandler.List)
	mux.HandleFunc("/routes", routeHandler.Get)

	return requestIDMiddleware(loggingMiddleware(mux))
}
