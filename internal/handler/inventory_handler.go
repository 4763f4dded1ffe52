package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fridgekeep/internal/inventory"
	"fridgekeep/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	service *inventory.Service
	logger  zerolog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service *inventory.Service, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inventory").Logger(),
	}
}

// List handles GET /api/items requests. Items come back reconciled with the
// remote mirror and ordered most urgent first.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.service.Items(r.Context())
	writeJSON(w, http.StatusOK, items)
}

// Add handles POST /api/items requests.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req inventory.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.Add(r.Context(), req)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeError(w, http.StatusBadRequest, domainErr.Code, domainErr.Message, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to add item", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PATCH /api/items/{id} requests. The service treats a missing
// id as a no-op; the HTTP surface reports it as 404.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeItemNotFound, "item ID is required", h.logger)
		return
	}

	var changes model.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, found := h.service.Update(r.Context(), id, changes)
	if !found {
		writeError(w, http.StatusNotFound, model.ErrCodeItemNotFound, "item not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id} requests. Deleting an unknown id
// succeeds; the outcome is the same either way.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeItemNotFound, "item ID is required", h.logger)
		return
	}

	h.service.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// Sync handles POST /api/sync requests, running a reconciliation pass on
// demand.
func (h *InventoryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	synced := h.service.ManualSync(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"synced": synced})
}

// Categories handles GET /api/categories requests.
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories":        model.Categories,
		"defaultExpiryDays": model.DefaultExpiryDays,
	})
}
