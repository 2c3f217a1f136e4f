package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/armadatrack/armada/internal/delivery/http/middleware"
	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/config"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/pkg/session"
)

// Router holds all dependencies of the HTTP router
type Router struct {
	authHandler    *AuthHandler
	vehicleHandler *VehicleHandler
	tripHandler    *TripHandler
	userHandler    *UserHandler
	reportHandler  *ReportHandler
	sessions       session.Store
	config         *config.Config
	logger         logger.Logger
}

// NewRouter creates a new HTTP router
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	tripHandler *TripHandler,
	userHandler *UserHandler,
	reportHandler *ReportHandler,
	sessions session.Store,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		vehicleHandler: vehicleHandler,
		tripHandler:    tripHandler,
		userHandler:    userHandler,
		reportHandler:  reportHandler,
		sessions:       sessions,
		config:         config,
		logger:         logger,
	}
}

// Setup wires all routes
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// Public report view, linked from the QR code on printed reports
	r.Get("/reports/{id}", rt.reportHandler.ViewReport)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no authentication)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes (authentication required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.sessions))

			r.Post("/auth/logout", rt.authHandler.Logout)
			r.Get("/auth/me", rt.authHandler.GetMe)

			// Vehicle endpoints
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", rt.vehicleHandler.ListVehicles)
				r.Get("/{id}/intent", rt.vehicleHandler.GetIntent)
				r.Post("/{id}/maintenance", rt.vehicleHandler.AcknowledgeMaintenance)

				// Admin only endpoints
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Post("/", rt.vehicleHandler.CreateVehicle)
					r.Delete("/{id}", rt.vehicleHandler.DeleteVehicle)
				})
			})

			r.Get("/maintenance/alerts", rt.vehicleHandler.GetMaintenanceAlerts)

			// Trip endpoints
			r.Route("/trips", func(r chi.Router) {
				r.Post("/start", rt.tripHandler.StartTrip)
				r.Post("/{id}/end", rt.tripHandler.EndTrip)
				r.Post("/{id}/notes", rt.tripHandler.GenerateNotes)
			})

			// Mutation log and exports
			r.Route("/mutations", func(r chi.Router) {
				r.Get("/", rt.reportHandler.ListLog)
				r.Get("/export/csv", rt.reportHandler.ExportCSV)
				r.Get("/export/pdf", rt.reportHandler.ExportLogPDF)
				r.Get("/{id}/pdf", rt.reportHandler.ExportTripPDF)
			})

			r.Post("/snapshot/refresh", rt.reportHandler.RefreshSnapshot)

			// User directory (admin only)
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Get("/", rt.userHandler.ListUsers)
				r.Post("/", rt.userHandler.CreateUser)
				r.Put("/{id}", rt.userHandler.UpdateUser)
				r.Put("/{id}/password", rt.userHandler.ChangePassword)
				r.Delete("/{id}", rt.userHandler.DeleteUser)
			})
		})
	})

	return r
}
