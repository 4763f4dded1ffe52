package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fridgekeep/internal/inventory"
	"fridgekeep/internal/model"
	"fridgekeep/internal/recipe"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RecipeHandler handles recipe suggestion and rating HTTP requests.
type RecipeHandler struct {
	recipes   *recipe.Service
	inventory *inventory.Service
	logger    zerolog.Logger
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipes *recipe.Service, inv *inventory.Service, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		inventory: inv,
		logger:    logger.With().Str("handler", "recipe").Logger(),
	}
}

// RateRequest is the body of a rating submission.
type RateRequest struct {
	Rating        int      `json:"rating"`
	LeftoverItems []string `json:"leftoverItems,omitempty"`
}

// Suggestions handles GET /api/recipes/suggestions requests, scoring the
// recipe candidates against the current inventory.
func (h *RecipeHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	views := h.inventory.Items(r.Context())

	items := make([]model.InventoryItem, len(views))
	for i, view := range views {
		items[i] = view.InventoryItem
	}

	suggestions := h.recipes.Suggestions(r.Context(), items)
	writeJSON(w, http.StatusOK, suggestions)
}

// Rate handles POST /api/recipes/{id}/ratings requests. Remote failures are
// reported in the success flag rather than as errors; only an out-of-range
// rating is rejected.
func (h *RecipeHandler) Rate(w http.ResponseWriter, r *http.Request) {
	recipeID := chi.URLParam(r, "id")
	if recipeID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "recipe ID is required", h.logger)
		return
	}

	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	ok, err := h.recipes.Rate(r.Context(), recipeID, req.Rating, req.LeftoverItems)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeError(w, http.StatusBadRequest, domainErr.Code, domainErr.Message, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to record rating", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": ok})
}
