package server

import (
	"net/http"

	"github.com/fieldworks/fleet-tracking/internal/adapter/http/middleware"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	// Observability
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/swagger/", httpSwagger.Handler())

	// Auth
	mux.HandleFunc("POST /auth/login", routes.auth.Login)
	mux.HandleFunc("POST /auth/refresh", routes.auth.Refresh)
	mux.HandleFunc("GET /auth/me", routes.auth.Profile)

	// Field devices
	mux.Handle("POST /gps", m.RequireRoles(routes.gps.Ingest, types.FieldRoles...))                // Report a GPS fix
	mux.Handle("GET /gps", m.RequireRoles(routes.gps.Recent))                                      // Recent fixes for the account, any authenticated user

	// Dispatch console
	mux.Handle("GET /dispatch/gps/history", m.RequireRoles(routes.dispatch.GPSHistory, types.DispatcherRoles...))           // Historical playback
	mux.Handle("GET /dispatch/techs", m.RequireRoles(routes.dispatch.Roster, types.DispatcherRoles...))                     // Live roster
	mux.Handle("GET /dispatch/techs/{tech_id}/stats", m.RequireRoles(routes.dispatch.TechStats, types.DispatcherRoles...))  // Daily stats
	mux.Handle("GET /dispatch/techs/{tech_id}/activity", m.RequireRoles(routes.dispatch.Activity, types.DispatcherRoles...)) // Recent activity
	mux.Handle("GET /ws/dispatch", m.RequireRoles(routes.ws.LiveFeed, types.DispatcherRoles...))                            // Live location feed
}
