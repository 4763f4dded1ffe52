package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fridgekeep/internal/blob"
	"fridgekeep/internal/inventory"
	"fridgekeep/internal/mirror"
	"fridgekeep/internal/model"
	"fridgekeep/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newInventoryRouter wires a real inventory service over in-memory backends
// behind a chi router, the same shape the application router uses.
func newInventoryRouter(t *testing.T) (chi.Router, *mirror.MemoryMirror) {
	t.Helper()

	logger := zerolog.Nop()
	store := inventory.NewSnapshotStore(blob.NewMemoryStore(), logger)
	remote := mirror.NewMemoryMirror()
	scheduler := notify.NewScheduler(nil, logger)
	syncer := inventory.NewSyncer(store, remote, scheduler, logger)
	service := inventory.NewService(store, remote, syncer, scheduler, logger)

	h := NewInventoryHandler(service, logger)

	r := chi.NewRouter()
	r.Get("/api/items", h.List)
	r.Post("/api/items", h.Add)
	r.Patch("/api/items/{id}", h.Update)
	r.Delete("/api/items/{id}", h.Delete)
	r.Post("/api/sync", h.Sync)
	r.Get("/api/categories", h.Categories)

	return r, remote
}

func addItem(t *testing.T, router chi.Router, name string, days int) model.ItemView {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"name":            name,
		"daysUntilExpiry": days,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var view model.ItemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func TestInventoryHandler_AddAndList(t *testing.T) {
	router, _ := newInventoryRouter(t)

	soup := addItem(t, router, "Lentil soup", 4)
	assert.NotEmpty(t, soup.ID)
	assert.Equal(t, "Lentil soup", soup.Name)
	assert.Equal(t, model.StatusFresh, soup.Status)

	addItem(t, router, "Roast chicken", 2)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var views []model.ItemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)

	// Most urgent first.
	assert.Equal(t, "Roast chicken", views[0].Name)
	assert.Equal(t, "Lentil soup", views[1].Name)
}

func TestInventoryHandler_AddValidation(t *testing.T) {
	router, _ := newInventoryRouter(t)

	tests := []struct {
		name         string
		body         string
		expectedCode string
	}{
		{
			name:         "empty name",
			body:         `{"name": "  ", "daysUntilExpiry": 3}`,
			expectedCode: model.ErrCodeNameRequired,
		},
		{
			name:         "non-positive expiry",
			body:         `{"name": "Soup", "daysUntilExpiry": 0}`,
			expectedCode: model.ErrCodeInvalidExpiry,
		},
		{
			name:         "malformed body",
			body:         `{"name":`,
			expectedCode: model.ErrCodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error)
		})
	}
}

func TestInventoryHandler_Update(t *testing.T) {
	router, _ := newInventoryRouter(t)

	item := addItem(t, router, "Curry", 3)

	body := bytes.NewBufferString(`{"name": "Green curry", "notes": "freezer"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/items/"+item.ID, body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var updated model.ItemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Green curry", updated.Name)
	assert.Equal(t, "freezer", updated.Notes)
	assert.Equal(t, 3, updated.DaysUntilExpiry)
}

func TestInventoryHandler_UpdateMissingItemIs404(t *testing.T) {
	router, _ := newInventoryRouter(t)

	body := bytes.NewBufferString(`{"name": "Ghost"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/items/no-such-id", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeItemNotFound, resp.Error)
}

func TestInventoryHandler_Delete(t *testing.T) {
	router, _ := newInventoryRouter(t)

	item := addItem(t, router, "Stew", 4)

	req := httptest.NewRequest(http.MethodDelete, "/api/items/"+item.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Deleting again succeeds; the id is simply gone either way.
	req = httptest.NewRequest(http.MethodDelete, "/api/items/"+item.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	listW := httptest.NewRecorder()
	router.ServeHTTP(listW, listReq)

	var views []model.ItemView
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &views))
	assert.Empty(t, views)
}

func TestInventoryHandler_Sync(t *testing.T) {
	router, remote := newInventoryRouter(t)

	addItem(t, router, "Soup", 4)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["synced"])

	// A failing mirror read is the one sync error that surfaces.
	remote.ReadErr = assert.AnError

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp["synced"])
}

func TestInventoryHandler_Categories(t *testing.T) {
	router, _ := newInventoryRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories        []string       `json:"categories"`
		DefaultExpiryDays map[string]int `json:"defaultExpiryDays"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.Categories, resp.Categories)
	assert.Equal(t, 7, resp.DefaultExpiryDays["Dairy"])
	assert.Equal(t, 3, resp.DefaultExpiryDays["Meat"])
}
