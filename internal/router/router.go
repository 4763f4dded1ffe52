package router

import (
	"net/http"

	"fridgekeep/internal/handler"
	"fridgekeep/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	inventoryHandler *handler.InventoryHandler,
	recipeHandler *handler.RecipeHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", inventoryHandler.List)
		r.Post("/items", inventoryHandler.Add)
		r.Patch("/items/{id}", inventoryHandler.Update)
		r.Delete("/items/{id}", inventoryHandler.Delete)

		r.Post("/sync", inventoryHandler.Sync)
		r.Get("/categories", inventoryHandler.Categories)

		r.Get("/recipes/suggestions", recipeHandler.Suggestions)
		r.Post("/recipes/{id}/ratings", recipeHandler.Rate)
	})

	return r
}
