package handlers

import (
	"log/slog"
	"net/http"

	"shopclock/config"
	"shopclock/middleware"
	"shopclock/models"
	"shopclock/timetrack"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the JSON API. middleware.SetJWTSecret must have been called.
func NewRouter(cfg *config.Config, svc *timetrack.Service, logger *slog.Logger) http.Handler {
	authHandler := NewAuthHandler(cfg)
	trackingHandler := NewTrackingHandler(cfg, svc, logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Post("/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/logout", authHandler.Logout)
		r.Get("/status", trackingHandler.Status)
		r.Post("/clock-in", trackingHandler.ClockIn)
		r.Post("/clock-out", trackingHandler.ClockOut)
		r.Get("/entries", trackingHandler.Entries)
		r.Get("/summary/weekly", trackingHandler.WeeklySummary)

		// Admin and manager only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			r.Get("/entries/range", trackingHandler.Range)
			r.Post("/entries/{id}/adjust", trackingHandler.Adjust)
			r.Get("/entries/{id}/adjustments", trackingHandler.Adjustments)
		})
	})

	return router
}
