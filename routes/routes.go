package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medtrack/pharmacy-inventory/app"
	"github.com/medtrack/pharmacy-inventory/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	medicineHandler := handlers.NewMedicineHandler(deps.Inventory, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Logger)
	auditHandler := handlers.NewAuditHandler(deps.Audit, deps.Logger)
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", handlers.HandleHealth)
	r.Get("/readyz", handlers.HandleReady)

	// Auth endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", medicineHandler.HandleList)
			r.Post("/", medicineHandler.HandleCreate)
			r.Get("/search", medicineHandler.HandleSearch)
			r.Get("/low-stock", medicineHandler.HandleLowStock)
			r.Get("/expired", medicineHandler.HandleExpired)
			r.Get("/stats", medicineHandler.HandleStats)
			r.Get("/categories", medicineHandler.HandleCategories)
			r.Get("/{id}", medicineHandler.HandleGet)
			r.Put("/{id}", medicineHandler.HandleUpdate)
			r.Delete("/{id}", medicineHandler.HandleDelete)
		})

		// User management is admin-only, matching the application's
		// admin guard
		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAdmin)
			r.Get("/", userHandler.HandleList)
			r.Post("/", userHandler.HandleCreate)
			r.Get("/{id}", userHandler.HandleGet)
			r.Put("/{id}", userHandler.HandleUpdate)
			r.Delete("/{id}", userHandler.HandleDelete)
		})

		r.Route("/audit-logs", func(r chi.Router) {
			r.Get("/", auditHandler.HandleList)
			r.Get("/search", auditHandler.HandleSearch)
			r.Get("/entity/{type}", auditHandler.HandleByEntity)
		})
	})

	return r
}
