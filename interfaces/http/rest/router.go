// Package rest wires the HTTP surface: the public analysis proxy and
// the authenticated store routes.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"nutrilens/application/analysis"
	"nutrilens/application/ports"
	"nutrilens/infrastructure/config"
	"nutrilens/interfaces/http/rest/handlers"
	"nutrilens/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	backend  analysis.Backend
	meals    ports.MealStore
	profiles ports.ProfileStore
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	backend analysis.Backend,
	meals ports.MealStore,
	profiles ports.ProfileStore,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		backend:  backend,
		meals:    meals,
		profiles: profiles,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// The analyze endpoint is called straight from browsers and device
	// builds, so any origin is accepted and preflights answered.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/api/health", rt.healthCheck)

	// Analysis proxy, no auth: the proxy itself holds the vision key.
	analyzeHandler := handlers.NewAnalyzeHandler(rt.backend, rt.logger)
	router.Post("/api/analyze-food", analyzeHandler.Analyze)

	// Recipe catalog, public.
	recipeHandler := handlers.NewRecipeHandler()
	router.Route("/api/recipes", func(r chi.Router) {
		r.Get("/", recipeHandler.List)
		r.Get("/{recipeID}", recipeHandler.Get)
	})

	// Store routes require a Supabase access token.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg.SupabaseJWTSecret, rt.logger))

		mealHandler := handlers.NewMealHandler(rt.meals, rt.cfg.MealHistoryLimit, rt.logger)
		r.Route("/meals", func(r chi.Router) {
			r.Get("/", mealHandler.List)
			r.Post("/", mealHandler.Create)
			r.Delete("/{mealID}", mealHandler.Delete)
		})

		profileHandler := handlers.NewProfileHandler(rt.profiles, rt.logger)
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","message":"NutriLens API Server is running"}`))
}
