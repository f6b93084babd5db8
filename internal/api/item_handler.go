package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/bucketlist-api/internal/api/shared"
	"github.com/phrazzld/bucketlist-api/internal/service"
)

// ItemHandler serves /bucketlists/{id}/items.
type ItemHandler struct {
	items  service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(items service.ItemService, logger *slog.Logger) *ItemHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemHandler{
		items:  items,
		logger: logger.With(slog.String("component", "item_handler")),
	}
}

// List handles GET /bucketlists/{id}/items/.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	listID, ok := parseID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, msgBucketListNotFound)
		return
	}

	items, err := h.items.ListItems(r.Context(), user.ID, listID)
	if err != nil {
		handleReadError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// Get handles GET /bucketlists/{id}/items/{item_id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	listID, okList := parseID(r, "id")
	itemID, okItem := parseID(r, "item_id")
	if !okList || !okItem {
		shared.RespondWithError(w, r, http.StatusNotFound, msgItemNotFound)
		return
	}

	item, err := h.items.GetItem(r.Context(), user.ID, listID, itemID)
	if err != nil {
		handleReadError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// Create handles POST /bucketlists/{id}/items/.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	listID, ok := parseID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, msgBucketListNotFound)
		return
	}

	var req CreateItemRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleMutationError(w, r, err)
		return
	}

	item, err := h.items.CreateItem(r.Context(), user.ID, listID, req.Name, *req.Done)
	if err != nil {
		handleMutationError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// Update handles PUT /bucketlists/{id}/items/{item_id}. Omitted fields keep
// their values.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	listID, okList := parseID(r, "id")
	itemID, okItem := parseID(r, "item_id")
	if !okList || !okItem {
		shared.RespondWithError(w, r, http.StatusUnauthorized, msgItemIDMissing)
		return
	}

	var req UpdateItemRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleMutationError(w, r, err)
		return
	}

	item, err := h.items.UpdateItem(r.Context(), user.ID, listID, itemID, service.ItemUpdate{
		Name: req.Name,
		Done: req.Done,
	})
	if err != nil {
		handleMutationError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// Delete handles DELETE /bucketlists/{id}/items/{item_id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	listID, okList := parseID(r, "id")
	itemID, okItem := parseID(r, "item_id")
	if !okList || !okItem {
		shared.RespondWithError(w, r, http.StatusNotFound, msgItemNotFound)
		return
	}

	if err := h.items.DeleteItem(r.Context(), user.ID, listID, itemID); err != nil {
		handleMutationError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}
